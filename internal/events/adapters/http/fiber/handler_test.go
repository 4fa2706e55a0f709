package fiber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/usecase"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type fakeStoreEventUseCase struct {
	ExecuteFunc         func(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error)
	BulkCreateFunc      func(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error)
	LastExecuteInput    usecase.StoreEventInput
	LastBulkCreateInput usecase.BulkCreateEventsInput
}

func (f *fakeStoreEventUseCase) Execute(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error) {
	f.LastExecuteInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return usecase.StoreEventResult{}, nil
}

func (f *fakeStoreEventUseCase) BulkCreateEvents(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error) {
	f.LastBulkCreateInput = in
	if f.BulkCreateFunc != nil {
		return f.BulkCreateFunc(ctx, in)
	}
	return usecase.BulkCreateEventsResult{}, nil
}

type fakeGetEventUseCase struct {
	events map[uint64]*domain.Event
	err    error
}

func (f *fakeGetEventUseCase) Execute(ctx context.Context, id uint64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEventNotFound
}

// helper: create fiber app and routes
func setupTestApp(uc StoreEventUseCase, get GetEventUseCase) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	h := NewEventHandler(uc, get, "http://test")

	app.Post("/events", h.CreateEvent)
	app.Post("/events/bulk", h.BulkCreateEvents)
	app.Get("/e", h.GetEvent)

	return app
}

// helper: send request
func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func TestCreateEvent_Success_Created(t *testing.T) {
	fakeUC := &fakeStoreEventUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error) {
			return usecase.StoreEventResult{ID: 1000001, Timestamp: 1000}, nil
		},
	}

	app := setupTestApp(fakeUC, &fakeGetEventUseCase{})

	reqBody := CreateEventRequest{
		Kind:     "generic",
		DeviceID: "device_1",
		Payload:  json.RawMessage(`{"event":"CTFO","source":"card"}`),
	}

	resp, body := doRequest(t, app, http.MethodPost, "/events", reqBody)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, resp.StatusCode, string(body))
	}

	var respJSON CreateEventResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}

	if respJSON.Status != "created" || respJSON.ID != 1000001 || respJSON.MS != 1000 {
		t.Errorf("unexpected response: %+v", respJSON)
	}
	if respJSON.URI != "http://test/e?eid=1000001" {
		t.Errorf("unexpected uri: %s", respJSON.URI)
	}
	if fakeUC.LastExecuteInput.Kind != "generic" || fakeUC.LastExecuteInput.DeviceID != "device_1" {
		t.Errorf("unexpected input: %+v", fakeUC.LastExecuteInput)
	}
	if !bytes.Contains(fakeUC.LastExecuteInput.Payload, []byte(`"CTFO"`)) {
		t.Errorf("payload not forwarded: %s", fakeUC.LastExecuteInput.Payload)
	}
}

func TestCreateEvent_InvalidJSON(t *testing.T) {
	app := setupTestApp(&fakeStoreEventUseCase{}, &fakeGetEventUseCase{})

	// Undefined JSON
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"kind":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}
}

func TestCreateEvent_ValidationError(t *testing.T) {
	fakeUC := &fakeStoreEventUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error) {
			return usecase.StoreEventResult{}, fmt.Errorf("%w: %w", usecase.ErrInvalidEvent, domain.ErrUnknownKind)
		},
	}

	app := setupTestApp(fakeUC, &fakeGetEventUseCase{})

	resp, body := doRequest(t, app, http.MethodPost, "/events", CreateEventRequest{Kind: "nope"})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}

	if respJSON["error"] != "invalid_event" {
		t.Errorf("expected error=%q, got %v", "invalid_event", respJSON["error"])
	}
}

func TestCreateEvent_InternalError(t *testing.T) {
	fakeUC := &fakeStoreEventUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error) {
			return usecase.StoreEventResult{}, errors.New("db error")
		},
	}

	app := setupTestApp(fakeUC, &fakeGetEventUseCase{})

	resp, body := doRequest(t, app, http.MethodPost, "/events", CreateEventRequest{Kind: "identify"})

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusInternalServerError, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}

	if respJSON["error"] != "internal_server_error" {
		t.Errorf("expected error=internal_server_error, got %v", respJSON["error"])
	}
}

func TestCreateEvent_DuplicateID(t *testing.T) {
	fakeUC := &fakeStoreEventUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error) {
			return usecase.StoreEventResult{}, fmt.Errorf("%w: %d", usecase.ErrDuplicateID, 1000000)
		},
	}

	app := setupTestApp(fakeUC, &fakeGetEventUseCase{})

	resp, body := doRequest(t, app, http.MethodPost, "/events", CreateEventRequest{Kind: "identify"})

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusConflict, resp.StatusCode, string(body))
	}
}

// ---- Bulk tests ----

func TestBulkCreateEvents_Success(t *testing.T) {
	fakeUC := &fakeStoreEventUseCase{
		BulkCreateFunc: func(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error) {
			ids := make([]uint64, len(in.Events))
			for i := range in.Events {
				ids[i] = uint64(1000000 + i)
			}
			return usecase.BulkCreateEventsResult{IDs: ids}, nil
		},
	}

	app := setupTestApp(fakeUC, &fakeGetEventUseCase{})

	reqBody := BulkCreateEventsRequest{
		Events: []CreateEventRequest{
			{Kind: "identify", DeviceID: "d1"},
			{Kind: "app_launch", DeviceID: "d1", Payload: json.RawMessage(`{"binary_version":"1.2"}`)},
		},
	}

	resp, body := doRequest(t, app, http.MethodPost, "/events/bulk", reqBody)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, resp.StatusCode, string(body))
	}

	var respJSON BulkCreateEventsResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}

	if respJSON.Created != 2 {
		t.Errorf("expected created=2, got %d", respJSON.Created)
	}
	if len(respJSON.IDs) != 2 || respJSON.IDs[1] != 1000001 {
		t.Errorf("unexpected ids: %v", respJSON.IDs)
	}
	if got := fakeUC.LastBulkCreateInput.Events[1].Kind; got != "app_launch" {
		t.Errorf("unexpected forwarded kind: %s", got)
	}
}

func TestBulkCreateEvents_InvalidJSON(t *testing.T) {
	app := setupTestApp(&fakeStoreEventUseCase{}, &fakeGetEventUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/events/bulk", bytes.NewBufferString(`{"events":[`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestBulkCreateEvents_EmptyList(t *testing.T) {
	app := setupTestApp(&fakeStoreEventUseCase{}, &fakeGetEventUseCase{})

	resp, body := doRequest(t, app, http.MethodPost, "/events/bulk", BulkCreateEventsRequest{})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}
}

func TestBulkCreateEvents_ValidationError(t *testing.T) {
	fakeUC := &fakeStoreEventUseCase{
		BulkCreateFunc: func(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error) {
			return usecase.BulkCreateEventsResult{}, fmt.Errorf("event 1: %w", usecase.ErrInvalidEvent)
		},
	}

	app := setupTestApp(fakeUC, &fakeGetEventUseCase{})

	reqBody := BulkCreateEventsRequest{Events: []CreateEventRequest{{Kind: "identify"}, {Kind: "bad"}}}
	resp, body := doRequest(t, app, http.MethodPost, "/events/bulk", reqBody)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}
}

// ---- Event detail ----

func TestGetEvent_Found(t *testing.T) {
	get := &fakeGetEventUseCase{events: map[uint64]*domain.Event{
		5000000: {
			ID:        5000000,
			Timestamp: 5000,
			DeviceID:  "d1",
			Payload:   domain.Generic{Event: "Tap", Source: "card"},
		},
	}}
	app := setupTestApp(&fakeStoreEventUseCase{}, get)

	resp, body := doRequest(t, app, http.MethodGet, "/e?eid=5000000", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	var respJSON EventResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Kind != "generic" || respJSON.MS != 5000 {
		t.Errorf("unexpected response: %+v", respJSON)
	}
	if respJSON.GroupURI != "http://test/g?gid=CID:d1" {
		t.Errorf("unexpected group uri: %s", respJSON.GroupURI)
	}
	if respJSON.Description != `Generic "Tap" from "card"` {
		t.Errorf("unexpected description: %s", respJSON.Description)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	app := setupTestApp(&fakeStoreEventUseCase{}, &fakeGetEventUseCase{})

	resp, body := doRequest(t, app, http.MethodGet, "/e?eid=42", nil)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusNotFound, resp.StatusCode, string(body))
	}
	if !bytes.Contains(body, []byte(`"NOT FOUND"`)) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestGetEvent_BadID(t *testing.T) {
	app := setupTestApp(&fakeStoreEventUseCase{}, &fakeGetEventUseCase{})

	resp, _ := doRequest(t, app, http.MethodGet, "/e?eid=abc", nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestGetEvent_InternalError(t *testing.T) {
	app := setupTestApp(&fakeStoreEventUseCase{}, &fakeGetEventUseCase{err: errors.New("boom")})

	resp, _ := doRequest(t, app, http.MethodGet, "/e?eid=1", nil)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.StatusCode)
	}
}
