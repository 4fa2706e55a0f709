package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type StoreEventUseCase interface {
	Execute(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error)
	BulkCreateEvents(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error)
}

type GetEventUseCase interface {
	Execute(ctx context.Context, id uint64) (*domain.Event, error)
}

type EventHandler struct {
	storeUC   StoreEventUseCase
	getUC     GetEventUseCase
	uriPrefix string
}

func NewEventHandler(storeUC StoreEventUseCase, getUC GetEventUseCase, uriPrefix string) *EventHandler {
	return &EventHandler{storeUC: storeUC, getUC: getUC, uriPrefix: uriPrefix}
}

func EventURI(prefix string, id uint64) string {
	return prefix + "/e?eid=" + strconv.FormatUint(id, 10)
}

func GroupURI(prefix, gid string) string {
	return prefix + "/g?gid=" + gid
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Stores a single event, assigns its stream id and publishes it
// @Tags Events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event payload"
// @Success 201 {object} CreateEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	res, err := h.storeUC.Execute(c.UserContext(), toInput(req))
	if err != nil {
		return h.writeStoreError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(CreateEventResponse{
		Status: "created",
		ID:     res.ID,
		MS:     res.Timestamp,
		URI:    EventURI(h.uriPrefix, res.ID),
	})
}

// BulkCreateEvents godoc
// @Summary Bulk create events
// @Description Validates every event, then stores and publishes them in order
// @Tags Events
// @Accept json
// @Produce json
// @Param request body BulkCreateEventsRequest true "Bulk event payload"
// @Success 201 {object} BulkCreateEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events/bulk [post]
func (h *EventHandler) BulkCreateEvents(c *fiber.Ctx) error {
	var req BulkCreateEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Events) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "events_list_required",
		})
	}

	inputs := make([]usecase.StoreEventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = toInput(e)
	}

	result, err := h.storeUC.BulkCreateEvents(
		c.UserContext(),
		usecase.BulkCreateEventsInput{Events: inputs},
	)
	if err != nil {
		return h.writeStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(BulkCreateEventsResponse{
		Created: len(result.IDs),
		IDs:     result.IDs,
	})
}

// GetEvent godoc
// @Summary Event detail
// @Tags Browse
// @Produce json
// @Param eid query int true "Event id"
// @Success 200 {object} EventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /e [get]
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("eid"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_eid",
			Message: "eid must be an unsigned integer",
		})
	}

	e, err := h.getUC.Execute(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Error: "NOT FOUND"})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	payload, err := domain.EncodePayload(e.Payload)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	resp := EventResponse{
		ID:          e.ID,
		MS:          e.Timestamp,
		Kind:        string(e.Payload.Kind()),
		DeviceID:    e.DeviceID,
		ClientID:    e.ClientID,
		Description: e.Describe(),
		Payload:     payload,
	}
	if gid := e.GroupKey(); gid != "" {
		resp.GroupURI = GroupURI(h.uriPrefix, gid)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func (h *EventHandler) writeStoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidEvent),
		errors.Is(err, usecase.ErrEmptyBulk):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_event",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrDuplicateID):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Error:   "duplicate_id",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func toInput(r CreateEventRequest) usecase.StoreEventInput {
	return usecase.StoreEventInput{
		Kind:     r.Kind,
		DeviceID: r.DeviceID,
		ClientID: r.ClientID,
		Payload:  r.Payload,
	}
}
