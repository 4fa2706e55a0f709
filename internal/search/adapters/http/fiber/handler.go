package fiber

import (
	"net/http"

	"session-analytics-service/internal/search/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type SearchUseCase interface {
	Execute(q string) usecase.SearchResult
}

type SearchHandler struct {
	uc SearchUseCase
}

func NewSearchHandler(uc SearchUseCase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// Search godoc
// @Summary Full text search
// @Description Returns the sorted URIs of events and groups matching every term of q, plus the route list
// @Tags Search
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} SearchResponse
// @Router / [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	res := h.uc.Execute(c.Query("q"))
	return c.Status(http.StatusOK).JSON(SearchResponse{
		Query:   res.Query,
		Results: res.Results,
		Routes:  res.Routes,
	})
}
