package domain

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
)

var ErrGroupNotFound = errors.New("group not found")

// sessionNamespace seeds name-based session ids.
var sessionNamespace = uuid.MustParse("6f1f0c6e-4a53-4f59-9d0c-3b1d2a7c5e10")

// Session aggregates the events of one actor between two idle gaps longer
// than the session timeout.
type Session struct {
	SID             string            `json:"sid"`
	GID             string            `json:"gid"`
	MsFirst         uint64            `json:"ms_first"`
	MsLast          uint64            `json:"ms_last"`
	Events          []uint64          `json:"events"`
	Counters        map[string]uint64 `json:"counters"`
	NumberOfEvents  uint64            `json:"number_of_events"`
	NumberOfSeconds uint64            `json:"number_of_seconds"`
}

// SessionID is stable for a given group and start time, so a finalize that
// is retried or replayed lands on the same row.
func SessionID(gid string, msFirst uint64) string {
	return uuid.NewSHA1(sessionNamespace, []byte(gid+"|"+strconv.FormatUint(msFirst, 10))).String()
}

func NewSession(gid string, ms uint64) *Session {
	return &Session{
		SID:      SessionID(gid, ms),
		GID:      gid,
		MsFirst:  ms,
		MsLast:   ms,
		Counters: make(map[string]uint64),
	}
}

// Add records one event at ms.
func (s *Session) Add(eventID, ms uint64, counter string) {
	if ms > s.MsLast {
		s.MsLast = ms
	}
	s.Events = append(s.Events, eventID)
	if counter != "" {
		s.Counters[counter]++
	}
}

// Finalize fills the derived fields.
func (s *Session) Finalize() {
	s.NumberOfEvents = uint64(len(s.Events))
	s.NumberOfSeconds = (s.MsLast - s.MsFirst + 1 + 999) / 1000
}

// Expired reports whether an element at ms closes the session.
func (s *Session) Expired(ms uint64, timeoutMs int64) bool {
	return int64(ms)-int64(s.MsLast) > timeoutMs
}

func (s *Session) Clone() Session {
	out := *s
	out.Events = append([]uint64(nil), s.Events...)
	out.Counters = make(map[string]uint64, len(s.Counters))
	for k, v := range s.Counters {
		out.Counters[k] = v
	}
	return out
}
