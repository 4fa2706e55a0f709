package ports

type IndexReaderPort interface {
	Query(text string) []string
}
