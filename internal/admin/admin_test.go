package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSource struct {
	phase    string
	channels []string
}

func (f fakeSource) Phase() string            { return f.phase }
func (f fakeSource) JoinedChannels() []string { return f.channels }

func TestHealthz(t *testing.T) {
	engine := NewEngine(fakeSource{phase: "Authenticated"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != "ok" {
		t.Fatalf("unexpected body: %q", resp.Body.String())
	}
}

func TestStatusReportsPhaseAndChannels(t *testing.T) {
	engine := NewEngine(fakeSource{phase: "Authenticated", channels: []string{"bob", "carol"}})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out StatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.Phase != "Authenticated" {
		t.Fatalf("expected phase Authenticated, got %q", out.Phase)
	}
	if out.ChannelCount != 2 {
		t.Fatalf("expected channel_count 2, got %d", out.ChannelCount)
	}
	if len(out.JoinedChannels) != 2 || out.JoinedChannels[0] != "bob" {
		t.Fatalf("unexpected joined_channels: %v", out.JoinedChannels)
	}
}

func TestStatusWithNoChannels(t *testing.T) {
	engine := NewEngine(fakeSource{phase: "Idle"})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	var out StatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.ChannelCount != 0 {
		t.Fatalf("expected channel_count 0, got %d", out.ChannelCount)
	}
}
