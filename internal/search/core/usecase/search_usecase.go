package usecase

import (
	"strings"

	"session-analytics-service/internal/search/core/ports"
)

// Routes lists the browse surfaces advertised next to search results.
var Routes = []string{"/c", "/e", "/g", "/i", "/s", "/status"}

type SearchUseCase struct {
	index     ports.IndexReaderPort
	uriPrefix string
}

func NewSearchUseCase(index ports.IndexReaderPort, uriPrefix string) *SearchUseCase {
	return &SearchUseCase{index: index, uriPrefix: uriPrefix}
}

type SearchResult struct {
	Query   string
	Results []string
	Routes  []string
}

func (uc *SearchUseCase) Execute(q string) SearchResult {
	res := SearchResult{
		Query:   q,
		Results: []string{},
		Routes:  make([]string, len(Routes)),
	}
	for i, r := range Routes {
		res.Routes[i] = uc.uriPrefix + r
	}
	if strings.TrimSpace(q) == "" {
		return res
	}
	for _, h := range uc.index.Query(q) {
		res.Results = append(res.Results, uc.uriPrefix+h)
	}
	return res
}
