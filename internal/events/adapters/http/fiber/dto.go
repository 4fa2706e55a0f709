package fiber

import "github.com/goccy/go-json"

// CreateEventRequest represents event creation payload
// @Description Event creation DTO. payload carries the kind specific fields.
type CreateEventRequest struct {
	Kind     string          `json:"kind" example:"generic"`
	DeviceID string          `json:"device_id" example:"A1B2C3"`
	ClientID string          `json:"client_id" example:"client_1"`
	Payload  json.RawMessage `json:"payload" swaggertype:"object"`
}

type CreateEventResponse struct {
	Status string `json:"status" example:"created"`
	ID     uint64 `json:"eid" example:"1700000000000000"`
	MS     uint64 `json:"ms" example:"1700000000000"`
	URI    string `json:"uri"`
}

type BulkCreateEventsRequest struct {
	Events []CreateEventRequest `json:"events"`
}

type BulkCreateEventsResponse struct {
	Created int      `json:"created"`
	IDs     []uint64 `json:"eids"`
}

// EventResponse is the event detail view.
type EventResponse struct {
	ID          uint64          `json:"eid"`
	MS          uint64          `json:"ms"`
	Kind        string          `json:"kind"`
	DeviceID    string          `json:"device_id,omitempty"`
	ClientID    string          `json:"client_id,omitempty"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload" swaggertype:"object"`
	GroupURI    string          `json:"group,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message,omitempty" example:"Event payload is invalid"`
}
