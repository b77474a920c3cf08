package httpserver

import (
	"fmt"
	"strings"

	"github.com/arb-intel/engine/internal/model"
)

// Disclaimer is carried on every user-facing response: the engine only
// surfaces advisory signals, it never places bets.
const Disclaimer = "DISCLAIMER: This is advisory information only. No bets are placed automatically. " +
	"All betting decisions and executions must be made by you. Past opportunities do not guarantee " +
	"future results. Odds can change rapidly. Always verify current odds before placing any bets. " +
	"Gamble responsibly."

// instructionDTO is the bit-stable JSON shape for one BetInstruction.
type instructionDTO struct {
	Step            int     `json:"step"`
	Venue           string  `json:"venue"`
	Outcome         string  `json:"outcome"`
	StakeUSD        float64 `json:"stake_usd"`
	OddsDecimal     float64 `json:"odds_decimal"`
	OddsAmerican    string  `json:"odds_american"`
	PotentialPayout float64 `json:"potential_payout"`
}

// opportunityDTO is the bit-stable JSON shape for one Opportunity.
type opportunityDTO struct {
	Type             string           `json:"type"`
	EventID          string           `json:"event_id"`
	EventName        string           `json:"event_name"`
	MarketType       string           `json:"market_type"`
	ProfitPct        float64          `json:"profit_pct"`
	ProfitUSD        float64          `json:"profit_usd"`
	TotalStake       float64          `json:"total_stake"`
	FeesUSD          float64          `json:"fees_usd"`
	Risk             string           `json:"risk"`
	ExpiresInSeconds int              `json:"expires_in_seconds"`
	DetectedAt       string           `json:"detected_at"`
	Instructions     []instructionDTO `json:"instructions"`
	FormattedText    string           `json:"formatted_text"`
}

func toOpportunityDTO(o model.Opportunity) opportunityDTO {
	instructions := make([]instructionDTO, 0, len(o.Instructions))
	for _, in := range o.Instructions {
		instructions = append(instructions, instructionDTO{
			Step:            in.Step,
			Venue:           in.Venue,
			Outcome:         in.Outcome,
			StakeUSD:        in.StakeUSD,
			OddsDecimal:     in.OddsDecimal,
			OddsAmerican:    in.OddsAmerican,
			PotentialPayout: in.PotentialPayout,
		})
	}

	return opportunityDTO{
		Type:             string(o.Type),
		EventID:          o.EventID,
		EventName:        o.EventName,
		MarketType:       string(o.MarketType),
		ProfitPct:        o.ExpectedProfitPct,
		ProfitUSD:        o.ExpectedProfitUSD,
		TotalStake:       o.TotalStake,
		FeesUSD:          o.FeesUSD,
		Risk:             string(o.Risk),
		ExpiresInSeconds: o.ExpiresInSeconds,
		DetectedAt:       o.DetectedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Instructions:     instructions,
		FormattedText:    formatOpportunity(o),
	}
}

func toOpportunityDTOs(opps []model.Opportunity) []opportunityDTO {
	out := make([]opportunityDTO, 0, len(opps))
	for _, o := range opps {
		out = append(out, toOpportunityDTO(o))
	}
	return out
}

// formatOpportunity renders a human-readable, step-by-step summary of an
// Opportunity's instructions, suitable for display or copy/paste.
func formatOpportunity(o model.Opportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%.2f%% profit, %s risk)\n", o.Type, o.EventName, o.ExpectedProfitPct, o.Risk)
	for _, in := range o.Instructions {
		fmt.Fprintf(&b, "  %d. Bet $%.2f on %q at %s (odds %s, payout $%.2f)\n",
			in.Step, in.StakeUSD, in.Outcome, in.Venue, in.OddsAmerican, in.PotentialPayout)
	}
	return strings.TrimRight(b.String(), "\n")
}

// marketDTO is the JSON shape returned by /api/markets.
type marketDTO struct {
	EventID    string   `json:"event_id"`
	Category   string   `json:"category"`
	EventName  string   `json:"event_name"`
	MarketType string   `json:"market_type"`
	Venues     []string `json:"venues"`
	Outcomes   int      `json:"outcome_count"`
}

func toMarketDTO(m model.Market) marketDTO {
	venues := make([]string, 0, len(m.Outcomes))
	seen := make(map[string]bool)
	for v := range m.Venues() {
		if !seen[v] {
			seen[v] = true
			venues = append(venues, v)
		}
	}
	return marketDTO{
		EventID:    m.EventID,
		Category:   m.Category,
		EventName:  m.EventName,
		MarketType: string(m.MarketType),
		Venues:     venues,
		Outcomes:   len(m.Outcomes),
	}
}
