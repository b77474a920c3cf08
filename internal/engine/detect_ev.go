package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arb-intel/engine/internal/arbmath"
	"github.com/arb-intel/engine/internal/fees"
	"github.com/arb-intel/engine/internal/matcher"
	"github.com/arb-intel/engine/internal/model"
)

// detectEV evaluates a single event group for positive-EV opportunities
// against an anchor (prediction-market) venue, plus the supplemental
// BEST_PRICE cross-market price-gap comparison.
func detectEV(group matcher.Group, cfg Config, now time.Time) []model.Opportunity {
	anchors, betting := partitionAnchorBetting(group.Markets)
	var opps []model.Opportunity

	if len(anchors) > 0 && len(betting) > 0 {
		anchor := selectAnchor(anchors)
		anchorProb := anchorProbabilities(anchor)
		rep := matcher.Representative(group.Markets)

		for _, m := range betting {
			for _, o := range m.Outcomes {
				pTrue, ok := anchorProb[strings.ToLower(o.Name)]
				if !ok {
					continue
				}
				feePct := fees.Get(o.Venue).TradingFeePct
				evPct := arbmath.ExpectedValuePct(pTrue, o.OddsDecimal, feePct)
				if evPct < cfg.MinEVPct {
					continue
				}
				kelly := arbmath.KellyFraction(pTrue, o.OddsDecimal, feePct)
				stake := roundMoney(min(cfg.DefaultStakeUSD, cfg.DefaultStakeUSD*kelly*0.25))

				opps = append(opps, model.Opportunity{
					ID:                uuid.New().String(),
					Type:              model.OpportunityEV,
					EventID:           group.Key,
					EventName:         rep.EventName,
					MarketType:        rep.MarketType,
					ExpectedProfitPct: evPct,
					ExpectedProfitUSD: roundMoney(stake * evPct / 100),
					TotalStake:        stake,
					Instructions:      []model.BetInstruction{buildInstruction(1, o, stake)},
					FeesUSD:           roundMoney(stake * feePct / 100),
					Risk:              classifyEvRisk(evPct),
					ExpiresInSeconds:  30,
					DetectedAt:        now,
				})
			}
		}
	}

	opps = append(opps, detectBestPrice(group, cfg, now)...)
	return opps
}

// partitionAnchorBetting splits a group's markets into anchor venues
// (prediction markets plus Betfair, used as independent probability sources)
// and the remaining "betting" venues to be evaluated against them.
func partitionAnchorBetting(markets []model.Market) (anchors, betting []model.Market) {
	for _, m := range markets {
		if marketIsAnchor(m) {
			anchors = append(anchors, m)
		} else {
			betting = append(betting, m)
		}
	}
	return anchors, betting
}

var anchorVenues = map[string]bool{"polymarket": true, "kalshi": true, "manifold": true, "betfair": true}

func marketIsAnchor(m model.Market) bool {
	for v := range m.Venues() {
		if anchorVenues[v] {
			return true
		}
	}
	return false
}

// selectAnchor picks the anchor market with the highest-liquidity outcome,
// ties broken by ascending venue name, independent of adapter-arrival order.
func selectAnchor(anchors []model.Market) model.Market {
	best := anchors[0]
	bestLiquidity := maxLiquidity(best)
	bestVenue := firstVenueOf(best)

	for _, m := range anchors[1:] {
		l := maxLiquidity(m)
		v := firstVenueOf(m)
		switch {
		case l > bestLiquidity:
			best, bestLiquidity, bestVenue = m, l, v
		case l == bestLiquidity && v < bestVenue:
			best, bestLiquidity, bestVenue = m, l, v
		}
	}
	return best
}

func maxLiquidity(m model.Market) float64 {
	var max float64
	for _, o := range m.Outcomes {
		if o.Liquidity > max {
			max = o.Liquidity
		}
	}
	return max
}

func firstVenueOf(m model.Market) string {
	var v string
	for venue := range m.Venues() {
		if v == "" || venue < v {
			v = venue
		}
	}
	return v
}

func anchorProbabilities(m model.Market) map[string]float64 {
	probs := make(map[string]float64, len(m.Outcomes))
	for _, o := range m.Outcomes {
		probs[strings.ToLower(o.Name)] = 1 / o.OddsDecimal
	}
	return probs
}
