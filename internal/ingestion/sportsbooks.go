package ingestion

import (
	"context"
	"strings"
	"time"

	"github.com/arb-intel/engine/internal/model"
)

const oddsAPIBase = "https://api.the-odds-api.com/v4"

var defaultSports = []string{"basketball_nba", "americanfootball_nfl", "baseball_mlb", "icehockey_nhl"}

// SportsbookAdapter fetches head-to-head odds for major US sports from The
// Odds API, producing one Market per venue per event so the matcher and the
// arbitrage detector can compare across bookmakers. Without an API key it
// falls back to a fixed sample event so the rest of the pipeline still has
// something to exercise in development.
type SportsbookAdapter struct {
	apiKey string
	sports []string
}

func NewSportsbookAdapter(apiKey string) *SportsbookAdapter {
	return &SportsbookAdapter{apiKey: apiKey, sports: defaultSports}
}

type oddsAPIEvent struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	SportTitle   string             `json:"sport_title"`
	CommenceTime string             `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key     string          `json:"key"`
	Title   string          `json:"title"`
	Markets []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (a *SportsbookAdapter) Name() string { return "sportsbooks" }

func (a *SportsbookAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	if a.apiKey == "" {
		return mockSportsbookMarkets(), nil
	}

	var all []model.Market
	for _, sport := range a.sports {
		url := oddsAPIBase + "/sports/" + sport + "/odds?regions=us&markets=h2h&oddsFormat=decimal&apiKey=" + a.apiKey
		var events []oddsAPIEvent
		if err := getJSON(ctx, url, nil, &events); err != nil {
			continue
		}
		for _, e := range events {
			all = append(all, parseSportsbookEvent(e)...)
		}
	}
	return all, nil
}

func parseSportsbookEvent(e oddsAPIEvent) []model.Market {
	var startTime time.Time
	if e.CommenceTime != "" {
		if t, err := time.Parse(time.RFC3339, e.CommenceTime); err == nil {
			startTime = t
		}
	}
	eventName := e.AwayTeam + " @ " + e.HomeTeam

	var markets []model.Market
	for _, book := range e.Bookmakers {
		for _, mkt := range book.Markets {
			var outcomes []model.Outcome
			for _, o := range mkt.Outcomes {
				if o.Price <= 1.0 {
					continue
				}
				outcomes = append(outcomes, model.Outcome{
					Name:        normalizeTeamName(o.Name),
					OddsDecimal: round4(o.Price),
					Venue:       book.Key,
				})
			}
			if len(outcomes) < 2 {
				continue
			}
			marketType := model.MarketMoneyline
			if mkt.Key != "h2h" {
				marketType = model.MarketType(mkt.Key)
			}
			markets = append(markets, model.Market{
				EventID:    sportsEventID(e.SportTitle, e.HomeTeam, e.AwayTeam, startTime),
				Category:   e.SportTitle,
				EventName:  eventName,
				MarketType: marketType,
				StartTime:  startTime,
				Outcomes:   outcomes,
			})
		}
	}
	return markets
}

func normalizeTeamName(name string) string {
	return strings.TrimSpace(name)
}

func sportsEventID(sport, home, away string, start time.Time) string {
	key := strings.ToLower(sport + "_" + away + "_" + home)
	key = strings.ReplaceAll(key, " ", "-")
	if !start.IsZero() {
		key += "_" + start.Format("20060102")
	}
	return key
}

func mockSportsbookMarkets() []model.Market {
	startTime := time.Now().UTC()
	eventName := "Boston Celtics @ Los Angeles Lakers"
	eventID := sportsEventID("NBA", "Los Angeles Lakers", "Boston Celtics", startTime)

	books := []struct {
		key         string
		lakersOdds  float64
		celticsOdds float64
	}{
		{"draftkings", 2.10, 1.85},
		{"fanduel", 2.15, 1.80},
		{"betmgm", 2.05, 1.90},
	}

	markets := make([]model.Market, 0, len(books))
	for _, b := range books {
		markets = append(markets, model.Market{
			EventID:    eventID,
			Category:   "NBA",
			EventName:  eventName,
			MarketType: model.MarketMoneyline,
			StartTime:  startTime,
			Outcomes: []model.Outcome{
				{Name: "Los Angeles Lakers", OddsDecimal: b.lakersOdds, Venue: b.key},
				{Name: "Boston Celtics", OddsDecimal: b.celticsOdds, Venue: b.key},
			},
		})
	}
	return markets
}
