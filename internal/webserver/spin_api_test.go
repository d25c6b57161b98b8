package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tistolabs/ruleta-overlay/internal/types"
)

func TestTestSpinDefaults(t *testing.T) {
	events := setupHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/test-spin", nil)
	w := httptest.NewRecorder()
	handleTestSpin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Request types.SpinRequest `json:"request"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %s", w.Body.String())
	}
	if resp.Request.Type != "test" || resp.Request.Username != "TestUser" {
		t.Fatalf("defaults not applied: %+v", resp.Request)
	}

	// the test spin rides the real pipeline through to resolution
	ev := waitEvent(t, events, "spin-resolved")
	outcome, ok := ev.data.(types.SpinOutcome)
	if !ok {
		t.Fatalf("unexpected resolved payload: %+v", ev.data)
	}
	if outcome.Username != "TestUser" {
		t.Fatalf("expected TestUser outcome, got %+v", outcome)
	}
}

func TestTestSpinWithSku(t *testing.T) {
	events := setupHandlers(t)

	body := `{"sku":"seg_3","username":"operadora"}`
	req := httptest.NewRequest(http.MethodPost, "/api/test-spin", strings.NewReader(body))
	w := httptest.NewRecorder()
	handleTestSpin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	spinReq := requestFromSpinEvent(t, events)
	if spinReq.SegmentIndex == nil || *spinReq.SegmentIndex != 2 {
		t.Fatalf("sku seg_3 should map to index 2, got %v", spinReq.SegmentIndex)
	}
	if spinReq.Username != "operadora" {
		t.Fatalf("username should pass through, got %q", spinReq.Username)
	}
}

func TestStatusEndpoint(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handleStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var status struct {
		State        string `json:"state"`
		SegmentCount int    `json:"segment_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if status.State != "idle" && status.State != "spinning" {
		t.Fatalf("unexpected state %q", status.State)
	}
}

func TestHistoryEndpointStartsEmpty(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	handleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		History []types.SpinOutcome `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.History) != 0 {
		t.Fatalf("fresh machine should have no history, got %+v", resp.History)
	}
}

func TestSpinEndpointsRejectWrongMethod(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/test-spin", nil)
	w := httptest.NewRecorder()
	handleTestSpin(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET test-spin, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/status", nil)
	w = httptest.NewRecorder()
	handleStatus(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST status, got %d", w.Code)
	}
}
