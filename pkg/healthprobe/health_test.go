package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func doProbe(t *testing.T, h http.HandlerFunc) (int, probeResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body probeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode probe response: %v", err)
	}
	return rec.Code, body
}

func TestHealth_AlwaysOK(t *testing.T) {
	p := New()

	code, body := doProbe(t, p.Health())
	if code != http.StatusOK {
		t.Errorf("health status = %d, want 200", code)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if body.Uptime == "" {
		t.Error("expected a non-empty uptime")
	}

	// Liveness must not depend on readiness.
	p.SetReady(false)
	if code, _ := doProbe(t, p.Health()); code != http.StatusOK {
		t.Errorf("health status after SetReady(false) = %d, want 200", code)
	}
}

func TestReady_GatesOnSetReady(t *testing.T) {
	p := New()

	code, body := doProbe(t, p.Ready())
	if code != http.StatusServiceUnavailable {
		t.Errorf("ready status before SetReady = %d, want 503", code)
	}
	if body.Status != "not_ready" || body.Message == "" {
		t.Errorf("expected not_ready with a message, got %+v", body)
	}

	p.SetReady(true)
	code, body = doProbe(t, p.Ready())
	if code != http.StatusOK {
		t.Errorf("ready status after SetReady = %d, want 200", code)
	}
	if body.Status != "ready" {
		t.Errorf("status = %q, want ready", body.Status)
	}

	p.SetReady(false)
	if code, _ := doProbe(t, p.Ready()); code != http.StatusServiceUnavailable {
		t.Errorf("ready status after SetReady(false) = %d, want 503", code)
	}
}

func TestRecordScan_SurfacesLastScan(t *testing.T) {
	p := New()
	p.SetReady(true)

	_, body := doProbe(t, p.Ready())
	if body.ScansCompleted != 0 || body.LastScanAt != "" {
		t.Errorf("expected no scans before RecordScan, got %+v", body)
	}

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	p.RecordScan(first)
	p.RecordScan(first.Add(2 * time.Second))

	_, body = doProbe(t, p.Health())
	if body.ScansCompleted != 2 {
		t.Errorf("ScansCompleted = %d, want 2", body.ScansCompleted)
	}
	want := first.Add(2 * time.Second).Format(time.RFC3339)
	if body.LastScanAt != want {
		t.Errorf("LastScanAt = %q, want %q", body.LastScanAt, want)
	}
}
