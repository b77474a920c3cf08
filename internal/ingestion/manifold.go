package ingestion

import (
	"context"
	"time"

	"github.com/arb-intel/engine/internal/model"
)

const manifoldMarketsURL = "https://api.manifold.markets/v0/markets"

// ManifoldAdapter fetches markets from Manifold's public API. Manifold is a
// play-money market, useful as a probability anchor rather than a venue to
// arbitrage against directly.
type ManifoldAdapter struct {
	apiKey string
}

func NewManifoldAdapter(apiKey string) *ManifoldAdapter {
	return &ManifoldAdapter{apiKey: apiKey}
}

func (a *ManifoldAdapter) Name() string { return "manifold" }

type manifoldRaw struct {
	ID             string           `json:"id"`
	Question       string           `json:"question"`
	OutcomeType    string           `json:"outcomeType"`
	Probability    *float64         `json:"probability"`
	TotalLiquidity float64          `json:"totalLiquidity"`
	GroupSlugs     []string         `json:"groupSlugs"`
	CloseTime      *int64           `json:"closeTime"`
	IsResolved     bool             `json:"isResolved"`
	Answers        []manifoldAnswer `json:"answers"`
}

type manifoldAnswer struct {
	Text        string  `json:"text"`
	Probability float64 `json:"probability"`
}

func (a *ManifoldAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	headers := map[string]string{}
	if a.apiKey != "" {
		headers["Authorization"] = "Key " + a.apiKey
	}

	url := manifoldMarketsURL + "?limit=100&sort=last-bet-time&order=desc"
	var raw []manifoldRaw
	if err := getJSON(ctx, url, headers, &raw); err != nil {
		return nil, err
	}

	markets := make([]model.Market, 0, len(raw))
	for _, r := range raw {
		if r.IsResolved {
			continue
		}
		if m, ok := parseManifoldMarket(r); ok {
			markets = append(markets, m)
		}
	}
	return markets, nil
}

func parseManifoldMarket(r manifoldRaw) (model.Market, bool) {
	var outcomes []model.Outcome
	marketType := model.MarketBinary

	switch r.OutcomeType {
	case "BINARY":
		prob := 0.5
		if r.Probability != nil {
			prob = *r.Probability
		}
		prob = clamp(prob, 0.01, 0.99)
		outcomes = []model.Outcome{
			{Name: "Yes", OddsDecimal: round4(1 / prob), Venue: "manifold", Liquidity: r.TotalLiquidity},
			{Name: "No", OddsDecimal: round4(1 / (1 - prob)), Venue: "manifold", Liquidity: r.TotalLiquidity},
		}
	case "MULTIPLE_CHOICE":
		marketType = model.MarketMulti
		if len(r.Answers) == 0 {
			return model.Market{}, false
		}
		for _, ans := range r.Answers {
			if ans.Probability <= 0 || ans.Probability >= 1 {
				continue
			}
			prob := clamp(ans.Probability, 0.01, 0.99)
			outcomes = append(outcomes, model.Outcome{
				Name:        truncate(ans.Text, 50),
				OddsDecimal: round4(1 / prob),
				Venue:       "manifold",
			})
		}
		if len(outcomes) < 2 {
			return model.Market{}, false
		}
	default:
		return model.Market{}, false
	}

	category := "prediction"
	if len(r.GroupSlugs) > 0 {
		category = r.GroupSlugs[0]
	}

	var startTime time.Time
	if r.CloseTime != nil {
		startTime = time.UnixMilli(*r.CloseTime)
	}

	return model.Market{
		EventID:    "manifold_" + r.ID,
		Category:   category,
		EventName:  r.Question,
		MarketType: marketType,
		StartTime:  startTime,
		Outcomes:   outcomes,
	}, true
}
