package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arb-intel/engine/internal/model"
)

const betfairAPIURL = "https://api.betfair.com/exchange/betting/rest/v1.0"

// BetfairAdapter pulls runner prices from the Betfair Exchange. Betfair
// requires an application key and a session token obtained via interactive
// login; without credentials this adapter contributes nothing rather than
// erroring, since "no Betfair access configured" is a normal deployment.
type BetfairAdapter struct {
	appKey       string
	sessionToken string
	sportID      string
}

func NewBetfairAdapter(appKey, sessionToken string) *BetfairAdapter {
	return &BetfairAdapter{appKey: appKey, sessionToken: sessionToken, sportID: "1"} // soccer
}

func (a *BetfairAdapter) Name() string { return "betfair" }

func (a *BetfairAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	if a.appKey == "" || a.sessionToken == "" {
		return nil, nil
	}

	events, err := a.listEvents(ctx)
	if err != nil || len(events) == 0 {
		return nil, err
	}
	if len(events) > 20 {
		events = events[:20]
	}

	eventIDs := make([]string, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.Event.ID)
	}

	catalogues, err := a.listMarketCatalogue(ctx, eventIDs)
	if err != nil || len(catalogues) == 0 {
		return nil, err
	}
	if len(catalogues) > 50 {
		catalogues = catalogues[:50]
	}

	marketIDs := make([]string, 0, len(catalogues))
	for _, c := range catalogues {
		marketIDs = append(marketIDs, c.MarketID)
	}

	books, err := a.listMarketBook(ctx, marketIDs)
	if err != nil {
		return nil, err
	}
	bookByMarket := make(map[string]betfairBook, len(books))
	for _, b := range books {
		bookByMarket[b.MarketID] = b
	}

	markets := make([]model.Market, 0, len(catalogues))
	for _, cat := range catalogues {
		book := bookByMarket[cat.MarketID]
		if m, ok := parseBetfairMarket(cat, book); ok {
			markets = append(markets, m)
		}
	}
	return markets, nil
}

type betfairEventSummary struct {
	Event struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"event"`
}

type betfairCatalogue struct {
	MarketID   string `json:"marketId"`
	MarketName string `json:"marketName"`
	Event      struct {
		Name string `json:"name"`
	} `json:"event"`
	Runners []betfairRunner `json:"runners"`
}

type betfairRunner struct {
	SelectionID int64  `json:"selectionId"`
	RunnerName  string `json:"runnerName"`
}

type betfairBook struct {
	MarketID string              `json:"marketId"`
	Runners  []betfairBookRunner `json:"runners"`
}

type betfairBookRunner struct {
	SelectionID int64 `json:"selectionId"`
	Ex          struct {
		AvailableToBack []struct {
			Price float64 `json:"price"`
		} `json:"availableToBack"`
	} `json:"ex"`
}

func (a *BetfairAdapter) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := betfairAPIURL + "/" + endpoint + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Application", a.appKey)
	req.Header.Set("X-Authentication", a.sessionToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("betfair %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *BetfairAdapter) listEvents(ctx context.Context) ([]betfairEventSummary, error) {
	var out []betfairEventSummary
	payload := map[string]any{"filter": map[string]any{"eventTypeIds": []string{a.sportID}}}
	if err := a.post(ctx, "listEvents", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *BetfairAdapter) listMarketCatalogue(ctx context.Context, eventIDs []string) ([]betfairCatalogue, error) {
	var out []betfairCatalogue
	payload := map[string]any{
		"filter":           map[string]any{"eventIds": eventIDs},
		"maxResults":       100,
		"marketProjection": []string{"RUNNER_METADATA", "EVENT"},
	}
	if err := a.post(ctx, "listMarketCatalogue", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *BetfairAdapter) listMarketBook(ctx context.Context, marketIDs []string) ([]betfairBook, error) {
	var out []betfairBook
	payload := map[string]any{
		"marketIds": marketIDs,
		"priceProjection": map[string]any{
			"priceData":  []string{"EX_BEST_OFFERS"},
			"virtualise": false,
		},
	}
	if err := a.post(ctx, "listMarketBook", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseBetfairMarket(cat betfairCatalogue, book betfairBook) (model.Market, bool) {
	if len(cat.Runners) < 2 {
		return model.Market{}, false
	}

	priceBySelection := make(map[int64]float64, len(book.Runners))
	for _, br := range book.Runners {
		if len(br.Ex.AvailableToBack) > 0 {
			priceBySelection[br.SelectionID] = br.Ex.AvailableToBack[0].Price
		}
	}

	outcomes := make([]model.Outcome, 0, len(cat.Runners))
	for _, r := range cat.Runners {
		odds, ok := priceBySelection[r.SelectionID]
		if !ok {
			odds = 2.0
		}
		outcomes = append(outcomes, model.Outcome{
			Name:        r.RunnerName,
			OddsDecimal: odds,
			Venue:       "betfair",
		})
	}
	if len(outcomes) < 2 {
		return model.Market{}, false
	}

	eventName := cat.Event.Name
	if eventName == "" {
		eventName = cat.MarketName
	}

	return model.Market{
		EventID:    "betfair_" + cat.MarketID,
		Category:   "sports",
		EventName:  eventName,
		MarketType: model.MarketMoneyline,
		Outcomes:   outcomes,
	}, true
}
