package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/engine"
	"github.com/arb-intel/engine/internal/model"
	ws "github.com/arb-intel/engine/pkg/websocket"
)

// maxBroadcastOpportunities caps the opportunities array pushed to
// WebSocket clients; a client wanting the full list uses /api/opportunities.
const maxBroadcastOpportunities = 50

type handlers struct {
	engine   *engine.Engine
	hub      *ws.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

type opportunitiesResponse struct {
	Opportunities []opportunityDTO `json:"opportunities"`
	Count         int              `json:"count"`
	Disclaimer    string           `json:"disclaimer"`
}

func (h *handlers) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.Snapshot()
	writeJSON(w, opportunitiesResponse{
		Opportunities: toOpportunityDTOs(snapshot.Opportunities),
		Count:         len(snapshot.Opportunities),
		Disclaimer:    Disclaimer,
	})
}

type marketsResponse struct {
	Markets    []marketDTO `json:"markets"`
	Count      int         `json:"count"`
	Disclaimer string      `json:"disclaimer"`
}

func (h *handlers) handleMarkets(w http.ResponseWriter, r *http.Request) {
	markets := h.engine.Markets()
	out := make([]marketDTO, 0, len(markets))
	for _, m := range markets {
		out = append(out, toMarketDTO(m))
	}
	writeJSON(w, marketsResponse{Markets: out, Count: len(out), Disclaimer: Disclaimer})
}

type statsResponse struct {
	MarketsScanned   int    `json:"markets_scanned"`
	OpportunityCount int    `json:"opportunity_count"`
	ScanDurationMS   int64  `json:"scan_duration_ms"`
	Timestamp        string `json:"timestamp"`
	ConnectedStreams int    `json:"connected_streams"`
	Disclaimer       string `json:"disclaimer"`
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.statsResponse())
}

func (h *handlers) statsResponse() statsResponse {
	snapshot := h.engine.Snapshot()
	return statsResponse{
		MarketsScanned:   snapshot.MarketsScanned,
		OpportunityCount: len(snapshot.Opportunities),
		ScanDurationMS:   snapshot.ScanDurationMS,
		Timestamp:        snapshot.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		ConnectedStreams: h.hub.ClientCount(),
		Disclaimer:       Disclaimer,
	}
}

func (h *handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws-upgrade-failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, h, h.logger)
	h.hub.Register(client)

	client.Send(h.connectedMessage())

	go client.WritePump()
	go client.ReadPump()
}

// CurrentMessage and StatsMessage satisfy ws.SnapshotProvider, answering a
// connected client's get_opportunities/get_stats commands.
func (h *handlers) CurrentMessage() any {
	return buildScanResultMessage(h.engine.Snapshot())
}

func (h *handlers) StatsMessage() any {
	return h.statsResponse()
}

type connectedMessage struct {
	Type          string           `json:"type"`
	Opportunities []opportunityDTO `json:"opportunities"`
	Disclaimer    string           `json:"disclaimer"`
}

func (h *handlers) connectedMessage() connectedMessage {
	snapshot := h.engine.Snapshot()
	return connectedMessage{
		Type:          "connected",
		Opportunities: toOpportunityDTOs(snapshot.Opportunities),
		Disclaimer:    Disclaimer,
	}
}

type scanResultMessage struct {
	Type               string           `json:"type"`
	Timestamp          string           `json:"timestamp"`
	MarketsScanned     int              `json:"markets_scanned"`
	ScanDurationMS     int64            `json:"scan_duration_ms"`
	OpportunitiesCount int              `json:"opportunities_count"`
	Opportunities      []opportunityDTO `json:"opportunities"`
}

func buildScanResultMessage(result model.ScanResult) scanResultMessage {
	opps := result.Opportunities
	if len(opps) > maxBroadcastOpportunities {
		opps = opps[:maxBroadcastOpportunities]
	}
	return scanResultMessage{
		Type:               "scan_result",
		Timestamp:          result.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		MarketsScanned:     result.MarketsScanned,
		ScanDurationMS:     result.ScanDurationMS,
		OpportunitiesCount: len(result.Opportunities),
		Opportunities:      toOpportunityDTOs(opps),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
