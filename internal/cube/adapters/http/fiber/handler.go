package fiber

import (
	"bytes"
	"context"
	"net/http"

	"session-analytics-service/internal/cube/core/domain"
	"session-analytics-service/internal/cube/core/usecase"

	"github.com/gofiber/fiber/v2"
)

const contentTypeTSV = "text/tab-separated-values; charset=utf-8"

type ExportCubeUseCase interface {
	Execute(ctx context.Context) (*domain.Cube, error)
}

type ExportInsightsUseCase interface {
	Execute(ctx context.Context) (*usecase.Insights, error)
}

type CubeHandler struct {
	cubeUC     ExportCubeUseCase
	insightsUC ExportInsightsUseCase
}

func NewCubeHandler(cubeUC ExportCubeUseCase, insightsUC ExportInsightsUseCase) *CubeHandler {
	return &CubeHandler{cubeUC: cubeUC, insightsUC: insightsUC}
}

// ExportCube godoc
// @Summary Export the session cube
// @Description One row per finalized session, one column per dimension. TSV by default.
// @Tags Cube
// @Produce plain
// @Produce json
// @Param format query string false "Output format: tsv | json"
// @Success 200 {object} CubeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /c [get]
func (h *CubeHandler) ExportCube(c *fiber.Ctx) error {
	format, err := usecase.ValidateFormat(c.Query("format", ""))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_format",
			Message: err.Error(),
		})
	}

	cube, err := h.cubeUC.Execute(c.Context())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	if format == usecase.FormatJSON {
		sessions := cube.Sessions
		if sessions == nil {
			sessions = []domain.SessionFeatures{}
		}
		return c.Status(http.StatusOK).JSON(CubeResponse{Space: cube.Space, Sessions: sessions})
	}

	var buf bytes.Buffer
	if err := cube.WriteTSV(&buf); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
	c.Set(fiber.HeaderContentType, contentTypeTSV)
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

// ExportInsights godoc
// @Summary Export sessions as boolean features
// @Tags Cube
// @Produce json
// @Success 200 {object} InsightsResponse
// @Failure 500 {object} ErrorResponse
// @Router /i [get]
func (h *CubeHandler) ExportInsights(c *fiber.Ctx) error {
	res, err := h.insightsUC.Execute(c.Context())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
	return c.Status(http.StatusOK).JSON(toInsightsResponse(res))
}
