package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"session-analytics-service/internal/sessions/core/domain"
	"session-analytics-service/internal/sessions/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type BrowseUseCase interface {
	ListGroups(ctx context.Context) ([]string, error)
	GroupDetail(ctx context.Context, gid string) (usecase.GroupDetail, error)
}

type ListSessionsUseCase interface {
	Execute(ctx context.Context) (usecase.SessionsView, error)
}

// Progress reports stream positions handed to and completed by the
// consumer.
type Progress interface {
	Published() uint64
	Processed() uint64
}

type ActiveCounter interface {
	ActiveCount() int
}

type SessionHandler struct {
	browseUC   BrowseUseCase
	sessionsUC ListSessionsUseCase
	progress   Progress
	active     ActiveCounter
	uriPrefix  string
}

func NewSessionHandler(browseUC BrowseUseCase, sessionsUC ListSessionsUseCase, progress Progress, active ActiveCounter, uriPrefix string) *SessionHandler {
	return &SessionHandler{
		browseUC:   browseUC,
		sessionsUC: sessionsUC,
		progress:   progress,
		active:     active,
		uriPrefix:  uriPrefix,
	}
}

func eventURI(prefix string, id uint64) string {
	return prefix + "/e?eid=" + strconv.FormatUint(id, 10)
}

// Groups godoc
// @Summary Browse groups
// @Description Without gid: sorted group URIs. With gid: the group's events, newest first.
// @Tags Browse
// @Produce json
// @Param gid query string false "Group key, e.g. CID:<device id>"
// @Success 200 {object} GroupDetailResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /g [get]
func (h *SessionHandler) Groups(c *fiber.Ctx) error {
	gid := c.Query("gid")
	if gid == "" {
		return h.listGroups(c)
	}

	detail, err := h.browseUC.GroupDetail(c.UserContext(), gid)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGroupNotFound):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Error: "NOT FOUND"})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_server_error"})
		}
	}

	resp := GroupDetailResponse{
		Up:     h.uriPrefix + "/g",
		Events: make([]GroupEventResponse, len(detail.Events)),
	}
	for i, e := range detail.Events {
		resp.Events[i] = GroupEventResponse{
			URI:               h.uriPrefix + e.Handle,
			TimeAgo:           e.TimeAgo,
			TimeSincePrevious: e.TimeSincePrevious,
			Text:              e.Description,
		}
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func (h *SessionHandler) listGroups(c *fiber.Ctx) error {
	gids, err := h.browseUC.ListGroups(c.UserContext())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_server_error"})
	}

	resp := GroupListResponse{Groups: make([]string, len(gids))}
	for i, gid := range gids {
		resp.Groups[i] = h.uriPrefix + usecase.GroupHandle(gid)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Sessions godoc
// @Summary Sessions snapshot
// @Description Open sessions by gid and finalized sessions by gid then sid
// @Tags Browse
// @Produce json
// @Success 200 {object} SessionsResponse
// @Failure 500 {object} ErrorResponse
// @Router /s [get]
func (h *SessionHandler) Sessions(c *fiber.Ctx) error {
	view, err := h.sessionsUC.Execute(c.UserContext())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_server_error"})
	}

	resp := SessionsResponse{
		Current:   make(map[string]SessionResponse, len(view.Current)),
		Finalized: make(map[string]map[string]SessionResponse, len(view.Finalized)),
	}
	for gid, s := range view.Current {
		resp.Current[gid] = toSessionResponse(h.uriPrefix, s)
	}
	for gid, bySID := range view.Finalized {
		out := make(map[string]SessionResponse, len(bySID))
		for sid, s := range bySID {
			out[sid] = toSessionResponse(h.uriPrefix, s)
		}
		resp.Finalized[gid] = out
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Status godoc
// @Summary Stream progress
// @Description Published and processed stream positions; drained when they match
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	published, processed := h.progress.Published(), h.progress.Processed()
	return c.Status(http.StatusOK).JSON(StatusResponse{
		Published:      published,
		Processed:      processed,
		ActiveSessions: h.active.ActiveCount(),
		Drained:        processed >= published,
	})
}
