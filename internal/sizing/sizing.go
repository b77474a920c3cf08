// Package sizing computes per-outcome stake allocations for a guaranteed
// arbitrage, and the conservative payout/profit that allocation locks in.
package sizing

import "math"

// StakeSizing is the result of allocating capital across the outcomes of an
// arbitrage.
type StakeSizing struct {
	Stakes            []float64
	TotalStake        float64
	GuaranteedCashout float64 // min_i(stake_i * odds_i), conservative
	GuaranteedProfit  float64 // cashout - total stake - fees
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateStakes allocates capital proportionally to each outcome's implied
// probability, then rescales down if rounding pushed the total above
// capital. It never returns a total exceeding capital.
func CalculateStakes(capital float64, odds []float64) []float64 {
	probs := make([]float64, len(odds))
	var probSum float64
	for i, o := range odds {
		probs[i] = 1 / o
		probSum += probs[i]
	}

	stakes := make([]float64, len(odds))
	var total float64
	for i, p := range probs {
		stakes[i] = round2(capital * p / probSum)
		total += stakes[i]
	}

	if total > capital {
		stakes = scaleStakes(stakes, capital/total)
	}

	return stakes
}

// scaleStakes rescales every stake by factor and re-rounds to 2 decimals.
func scaleStakes(stakes []float64, factor float64) []float64 {
	scaled := make([]float64, len(stakes))
	for i, s := range stakes {
		scaled[i] = round2(s * factor)
	}
	return scaled
}

// CalculateProfit derives the conservative guaranteed cashout and profit for
// a set of stakes placed at the given odds, net of a fee percent applied to
// total stake.
func CalculateProfit(stakes, odds []float64, feePct float64) StakeSizing {
	var total float64
	cashout := math.Inf(1)
	for i, s := range stakes {
		total += s
		payout := s * odds[i]
		if payout < cashout {
			cashout = payout
		}
	}
	if len(stakes) == 0 {
		cashout = 0
	}

	feeCost := total * feePct / 100
	profit := cashout - total - feeCost

	return StakeSizing{
		Stakes:            stakes,
		TotalStake:        total,
		GuaranteedCashout: cashout,
		GuaranteedProfit:  profit,
	}
}

// CalculateWorstCaseLoss is the maximum amount that can be lost if the
// allocation turns out not to be a true arbitrage (e.g. stale odds): total
// stake minus the smallest possible payout, floored at 0.
func CalculateWorstCaseLoss(stakes, odds []float64) float64 {
	var total float64
	minPayout := math.Inf(1)
	for i, s := range stakes {
		total += s
		payout := s * odds[i]
		if payout < minPayout {
			minPayout = payout
		}
	}
	loss := total - minPayout
	if loss < 0 {
		return 0
	}
	return loss
}
