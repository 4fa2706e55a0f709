package fiber

import "session-analytics-service/internal/sessions/core/domain"

type GroupListResponse struct {
	Groups []string `json:"groups"`
}

type GroupEventResponse struct {
	URI               string `json:"uri"`
	TimeAgo           string `json:"time_ago"`
	TimeSincePrevious string `json:"time_since_previous_event"`
	Text              string `json:"text"`
}

// GroupDetailResponse lists a group's events newest first.
type GroupDetailResponse struct {
	Error  string               `json:"error,omitempty"`
	Up     string               `json:"up"`
	Events []GroupEventResponse `json:"event"`
}

type SessionResponse struct {
	SID             string            `json:"sid"`
	GID             string            `json:"gid"`
	MsFirst         uint64            `json:"ms_first"`
	MsLast          uint64            `json:"ms_last"`
	Events          []string          `json:"events"`
	Counters        map[string]uint64 `json:"counters"`
	NumberOfEvents  uint64            `json:"number_of_events"`
	NumberOfSeconds uint64            `json:"number_of_seconds"`
}

type SessionsResponse struct {
	Current   map[string]SessionResponse            `json:"current"`
	Finalized map[string]map[string]SessionResponse `json:"finalized"`
}

type StatusResponse struct {
	Published      uint64 `json:"published"`
	Processed      uint64 `json:"processed"`
	ActiveSessions int    `json:"active_sessions"`
	Drained        bool   `json:"drained"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"NOT FOUND"`
}

func toSessionResponse(prefix string, s domain.Session) SessionResponse {
	events := make([]string, len(s.Events))
	for i, id := range s.Events {
		events[i] = eventURI(prefix, id)
	}
	return SessionResponse{
		SID:             s.SID,
		GID:             s.GID,
		MsFirst:         s.MsFirst,
		MsLast:          s.MsLast,
		Events:          events,
		Counters:        s.Counters,
		NumberOfEvents:  s.NumberOfEvents,
		NumberOfSeconds: s.NumberOfSeconds,
	}
}
