package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arb-intel/engine/internal/arbmath"
	"github.com/arb-intel/engine/internal/fees"
	"github.com/arb-intel/engine/internal/matcher"
	"github.com/arb-intel/engine/internal/model"
	"github.com/arb-intel/engine/internal/sizing"
	"github.com/arb-intel/engine/pkg/oddsmath"
)

// detectArbitrage evaluates a single event group for a guaranteed
// arbitrage: best odds per distinct outcome name, aggregate fee across the
// chosen venues, and a stake allocation sized against cfg.DefaultStakeUSD.
func detectArbitrage(group matcher.Group, cfg Config, now time.Time) *model.Opportunity {
	best := bestOutcomePerName(group.Markets)
	if len(best) < 2 {
		return nil
	}

	names := sortedNames(best)
	outcomes := make([]model.Outcome, 0, len(names))
	odds := make([]float64, 0, len(names))
	venues := make([]string, 0, len(names))
	for _, n := range names {
		o := best[n]
		outcomes = append(outcomes, o)
		odds = append(odds, o.OddsDecimal)
		venues = append(venues, o.Venue)
	}

	aggregateFee := fees.TotalTradingFeePct(venues)
	result := arbmath.DetectArbitrage(odds, aggregateFee)
	if !result.IsArbitrage || result.ProfitPct < cfg.MinArbitrageProfitPct {
		return nil
	}

	stakes := sizing.CalculateStakes(cfg.DefaultStakeUSD, odds)
	sized := sizing.CalculateProfit(stakes, odds, aggregateFee)

	rep := matcher.Representative(group.Markets)
	instructions := make([]model.BetInstruction, 0, len(outcomes))
	for i, o := range outcomes {
		instructions = append(instructions, buildInstruction(i+1, o, stakes[i]))
	}

	return &model.Opportunity{
		ID:                uuid.New().String(),
		Type:              model.OpportunityArbitrage,
		EventID:           group.Key,
		EventName:         rep.EventName,
		MarketType:        rep.MarketType,
		ExpectedProfitPct: result.ProfitPct,
		ExpectedProfitUSD: roundMoney(sized.GuaranteedProfit),
		TotalStake:        sized.TotalStake,
		Instructions:      instructions,
		FeesUSD:           roundMoney(sized.TotalStake * aggregateFee / 100),
		Risk:              classifyArbRisk(result.ProfitPct, venues),
		ExpiresInSeconds:  30,
		DetectedAt:        now,
	}
}

// bestOutcomePerName builds a lowercase-name multimap across every market in
// the group and selects, for each name, the Outcome with the highest
// odds_decimal — ties broken by earliest observed_at, then lexicographic
// venue.
func bestOutcomePerName(markets []model.Market) map[string]model.Outcome {
	best := make(map[string]model.Outcome)
	for _, m := range markets {
		for _, o := range m.Outcomes {
			name := strings.ToLower(o.Name)
			current, ok := best[name]
			if !ok || betterOutcome(o, current) {
				best[name] = o
			}
		}
	}
	return best
}

func betterOutcome(candidate, current model.Outcome) bool {
	if candidate.OddsDecimal != current.OddsDecimal {
		return candidate.OddsDecimal > current.OddsDecimal
	}
	if !candidate.ObservedAt.Equal(current.ObservedAt) {
		if candidate.ObservedAt.IsZero() {
			return false
		}
		if current.ObservedAt.IsZero() {
			return true
		}
		return candidate.ObservedAt.Before(current.ObservedAt)
	}
	return candidate.Venue < current.Venue
}

func sortedNames(best map[string]model.Outcome) []string {
	names := make([]string, 0, len(best))
	for n := range best {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func buildInstruction(step int, o model.Outcome, stake float64) model.BetInstruction {
	american, err := oddsmath.DecimalToAmerican(o.OddsDecimal)
	americanStr := ""
	if err == nil {
		americanStr = oddsmath.FormatAmericanOdds(american)
	}
	return model.BetInstruction{
		Step:            step,
		Venue:           o.Venue,
		Outcome:         o.Name,
		StakeUSD:        stake,
		OddsDecimal:     o.OddsDecimal,
		OddsAmerican:    americanStr,
		PotentialPayout: roundMoney(stake * o.OddsDecimal),
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
