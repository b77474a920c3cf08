package ingestion

import (
	"context"
	"strconv"
	"time"

	"github.com/arb-intel/engine/internal/model"
	"github.com/arb-intel/engine/pkg/cache"
)

const predictitURL = "https://www.predictit.org/api/marketdata/all/"
const predictitCacheKey = "predictit:all"

// PredictItAdapter fetches PredictIt's full market list. The upstream API is
// public but rate-limited, so responses are cached for 30 seconds; a failed
// fetch falls back to the last good response rather than returning nothing.
type PredictItAdapter struct {
	cache *cache.TTLCache
}

func NewPredictItAdapter() (*PredictItAdapter, error) {
	c, err := cache.NewTTLCache(16, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return &PredictItAdapter{cache: c}, nil
}

func (a *PredictItAdapter) Name() string { return "predictit" }

type predictitResponse struct {
	Markets []predictitRaw `json:"markets"`
}

type predictitRaw struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Status    string              `json:"status"`
	Contracts []predictitContract `json:"contracts"`
}

type predictitContract struct {
	Name           string   `json:"name"`
	LastTradePrice *float64 `json:"lastTradePrice"`
	BestBuyYesCost *float64 `json:"bestBuyYesCost"`
}

func (a *PredictItAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	if cached, ok := a.cache.Get(predictitCacheKey); ok {
		return buildPredictitMarkets(cached.(predictitResponse)), nil
	}

	var resp predictitResponse
	if err := getJSON(ctx, predictitURL, nil, &resp); err != nil {
		if stale, ok := a.cache.Stale(predictitCacheKey); ok {
			return buildPredictitMarkets(stale.(predictitResponse)), nil
		}
		return nil, err
	}

	a.cache.Set(predictitCacheKey, resp)
	return buildPredictitMarkets(resp), nil
}

func buildPredictitMarkets(resp predictitResponse) []model.Market {
	var markets []model.Market
	for _, r := range resp.Markets {
		if r.Status != "" && r.Status != "Open" {
			continue
		}
		markets = append(markets, parsePredictitMarket(r)...)
	}
	return markets
}

func contractPrice(c predictitContract) (float64, bool) {
	if c.LastTradePrice != nil {
		return *c.LastTradePrice, true
	}
	if c.BestBuyYesCost != nil {
		return *c.BestBuyYesCost, true
	}
	return 0, false
}

func parsePredictitMarket(r predictitRaw) []model.Market {
	if r.Name == "" || len(r.Contracts) == 0 {
		return nil
	}

	if len(r.Contracts) == 1 {
		price, ok := contractPrice(r.Contracts[0])
		if !ok || price <= 0.01 || price >= 0.99 {
			return nil
		}
		noPrice := 1 - price

		return []model.Market{{
			EventID:    predictitEventID(r.ID),
			Category:   "politics",
			EventName:  truncate(r.Name, 200),
			MarketType: model.MarketBinary,
			Outcomes: []model.Outcome{
				{Name: "Yes", OddsDecimal: round4(clamp(1/price, 1.01, 100)), Venue: "predictit"},
				{Name: "No", OddsDecimal: round4(clamp(1/noPrice, 1.01, 100)), Venue: "predictit"},
			},
		}}
	}

	var outcomes []model.Outcome
	for _, c := range r.Contracts {
		price, ok := contractPrice(c)
		if !ok || price <= 0.01 || price >= 0.99 {
			continue
		}
		outcomes = append(outcomes, model.Outcome{
			Name:        truncate(c.Name, 50),
			OddsDecimal: round4(clamp(1/price, 1.01, 100)),
			Venue:       "predictit",
		})
	}
	if len(outcomes) < 2 {
		return nil
	}

	return []model.Market{{
		EventID:    predictitEventID(r.ID),
		Category:   "politics",
		EventName:  truncate(r.Name, 200),
		MarketType: model.MarketMulti,
		Outcomes:   outcomes,
	}}
}

func predictitEventID(id int) string {
	return "predictit_" + strconv.Itoa(id)
}
