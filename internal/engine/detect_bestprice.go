package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arb-intel/engine/internal/fees"
	"github.com/arb-intel/engine/internal/matcher"
	"github.com/arb-intel/engine/internal/model"
)

// detectBestPrice compares every pair of distinct venues within a group on
// their name-matching outcomes: when one venue's fee-adjusted price beats
// another's by at least cfg.MinEVPct, it is surfaced as a BEST_PRICE
// opportunity. This completes the BEST_PRICE opportunity type the data model
// names but that anchor-vs-betting EV alone never produces.
func detectBestPrice(group matcher.Group, cfg Config, now time.Time) []model.Opportunity {
	byName := make(map[string][]model.Outcome)
	for _, m := range group.Markets {
		for _, o := range m.Outcomes {
			name := strings.ToLower(o.Name)
			byName[name] = append(byName[name], o)
		}
	}

	rep := matcher.Representative(group.Markets)
	var opps []model.Opportunity

	for _, candidates := range byName {
		if len(candidates) < 2 {
			continue
		}
		for i := range candidates {
			for j := range candidates {
				if i == j || candidates[i].Venue == candidates[j].Venue {
					continue
				}
				gap := priceGapPct(candidates[i], candidates[j])
				if gap < cfg.MinEVPct {
					continue
				}
				opps = append(opps, model.Opportunity{
					ID:                uuid.New().String(),
					Type:              model.OpportunityBestPrice,
					EventID:           group.Key,
					EventName:         rep.EventName,
					MarketType:        rep.MarketType,
					ExpectedProfitPct: gap,
					TotalStake:        cfg.DefaultStakeUSD,
					Instructions:      []model.BetInstruction{buildInstruction(1, candidates[i], cfg.DefaultStakeUSD)},
					Risk:              classifyArbRisk(gap, []string{candidates[i].Venue, candidates[j].Venue}),
					ExpiresInSeconds:  30,
					DetectedAt:        now,
				})
			}
		}
	}
	return opps
}

// priceGapPct compares a's fee-adjusted decimal price against b's: the
// percentage by which a's payout-per-dollar beats b's.
func priceGapPct(a, b model.Outcome) float64 {
	feeA := fees.Get(a.Venue).TradingFeePct
	feeB := fees.Get(b.Venue).TradingFeePct
	adjustedA := a.OddsDecimal * (1 - feeA/100)
	adjustedB := b.OddsDecimal * (1 - feeB/100)
	if adjustedB <= 0 {
		return 0
	}
	return (adjustedA/adjustedB - 1) * 100
}
