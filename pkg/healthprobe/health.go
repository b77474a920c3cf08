// Package healthprobe provides the liveness and readiness handlers for the
// scan engine: /health reports process uptime, /ready additionally gates on
// the application having finished startup, and both expose the most recent
// scan so an operator can spot a stalled scan loop from the probe alone.
package healthprobe

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Probe tracks process readiness and the progress of the scan loop.
type Probe struct {
	startTime time.Time

	mu         sync.Mutex
	ready      bool
	lastScanAt time.Time
	scansDone  uint64
}

// New creates a Probe. The process reports not-ready until SetReady(true).
func New() *Probe {
	return &Probe{startTime: time.Now()}
}

// SetReady marks the application as ready (or no longer ready) to serve
// traffic.
func (p *Probe) SetReady(ready bool) {
	p.mu.Lock()
	p.ready = ready
	p.mu.Unlock()
}

// RecordScan notes that a scan cycle completed at ts. The engine's
// subscription fabric calls this once per published ScanResult.
func (p *Probe) RecordScan(ts time.Time) {
	p.mu.Lock()
	p.lastScanAt = ts
	p.scansDone++
	p.mu.Unlock()
}

type probeResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	ScansCompleted uint64 `json:"scans_completed"`
	LastScanAt     string `json:"last_scan_at,omitempty"`
	Message        string `json:"message,omitempty"`
}

func (p *Probe) snapshot(status string) probeResponse {
	p.mu.Lock()
	defer p.mu.Unlock()

	resp := probeResponse{
		Status:         status,
		Uptime:         time.Since(p.startTime).String(),
		ScansCompleted: p.scansDone,
	}
	if !p.lastScanAt.IsZero() {
		resp.LastScanAt = p.lastScanAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func (p *Probe) isReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Health returns the liveness handler. It answers 200 whenever the process
// is running, regardless of readiness.
func (p *Probe) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProbe(w, http.StatusOK, p.snapshot("healthy"))
	}
}

// Ready returns the readiness handler: 200 once the application has started
// all components, 503 before that.
func (p *Probe) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.isReady() {
			resp := p.snapshot("not_ready")
			resp.Message = "application is starting"
			writeProbe(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeProbe(w, http.StatusOK, p.snapshot("ready"))
	}
}

func writeProbe(w http.ResponseWriter, code int, resp probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
