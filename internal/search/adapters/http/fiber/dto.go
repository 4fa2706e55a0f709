package fiber

type SearchResponse struct {
	Query   string   `json:"q"`
	Results []string `json:"results"`
	Routes  []string `json:"routes"`
}
