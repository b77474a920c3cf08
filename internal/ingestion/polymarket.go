package ingestion

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/arb-intel/engine/internal/model"
)

const polymarketGammaURL = "https://gamma-api.polymarket.com/markets"

// PolymarketAdapter fetches active, liquid markets from Polymarket's public
// Gamma API. No authentication is required for read access.
type PolymarketAdapter struct{}

func NewPolymarketAdapter() *PolymarketAdapter { return &PolymarketAdapter{} }

func (a *PolymarketAdapter) Name() string { return "polymarket" }

type polymarketRaw struct {
	ID            string `json:"id"`
	ConditionID   string `json:"conditionId"`
	Question      string `json:"question"`
	Category      string `json:"category"`
	Closed        bool   `json:"closed"`
	LiquidityNum  float64 `json:"liquidityNum"`
	Outcomes      any    `json:"outcomes"`      // JSON-encoded string or array
	OutcomePrices any    `json:"outcomePrices"` // JSON-encoded string or array
}

func (a *PolymarketAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	url := polymarketGammaURL + "?limit=100&active=true&closed=false&order=liquidityNum&ascending=false"

	var raw []polymarketRaw
	if err := getJSON(ctx, url, nil, &raw); err != nil {
		return nil, err
	}

	markets := make([]model.Market, 0, len(raw))
	for _, r := range raw {
		if m, ok := parsePolymarketMarket(r); ok {
			markets = append(markets, m)
		}
	}
	return markets, nil
}

func parsePolymarketMarket(r polymarketRaw) (model.Market, bool) {
	if r.Closed || r.LiquidityNum < 100 || r.Question == "" {
		return model.Market{}, false
	}

	names, ok := decodeStringOrArray(r.Outcomes)
	if !ok {
		return model.Market{}, false
	}
	priceStrs, ok := decodeStringOrArray(r.OutcomePrices)
	if !ok {
		return model.Market{}, false
	}
	if len(names) != len(priceStrs) || len(names) < 2 {
		return model.Market{}, false
	}

	outcomes := make([]model.Outcome, 0, len(names))
	for i, name := range names {
		price, err := strconv.ParseFloat(priceStrs[i], 64)
		if err != nil || price <= 0.01 || price >= 0.99 {
			continue
		}
		outcomes = append(outcomes, model.Outcome{
			Name:        name,
			OddsDecimal: round4(1 / price),
			Venue:       "polymarket",
			Liquidity:   r.LiquidityNum,
		})
	}
	if len(outcomes) < 2 {
		return model.Market{}, false
	}

	eventID := r.ConditionID
	if len(eventID) > 16 {
		eventID = eventID[:16]
	}
	if eventID == "" {
		eventID = r.ID
	}

	category := r.Category
	if category == "" {
		category = "prediction"
	}

	marketType := model.MarketMulti
	if len(outcomes) == 2 {
		marketType = model.MarketBinary
	}

	return model.Market{
		EventID:    "polymarket_" + eventID,
		Category:   category,
		EventName:  truncate(r.Question, 200),
		MarketType: marketType,
		Outcomes:   outcomes,
	}, true
}

// decodeStringOrArray handles Polymarket's two representations of array
// fields: a genuine JSON array, or a string holding JSON-encoded array text.
func decodeStringOrArray(v any) ([]string, bool) {
	switch t := v.(type) {
	case string:
		var out []string
		if err := json.Unmarshal([]byte(t), &out); err != nil {
			return nil, false
		}
		return out, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
