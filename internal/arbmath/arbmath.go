// Package arbmath implements the pure arbitrage and expected-value formulas:
// detecting a guaranteed arbitrage across a vector of decimal odds, and
// scoring a single offered price against an anchor probability.
package arbmath

// ArbitrageResult is the outcome of evaluating a set of best-per-outcome
// decimal odds for a guaranteed arbitrage.
type ArbitrageResult struct {
	IsArbitrage bool
	ImpliedSum  float64 // Σ (1/oᵢ)
	Threshold   float64 // 1 - fee/100
	ProfitPct   float64 // (threshold - impliedSum) * 100, 0 when no arbitrage
}

// ImpliedProbabilities converts a vector of decimal odds to implied
// probabilities.
func ImpliedProbabilities(odds []float64) []float64 {
	probs := make([]float64, len(odds))
	for i, o := range odds {
		probs[i] = 1 / o
	}
	return probs
}

// DetectArbitrage evaluates whether the given decimal odds, net of an
// aggregate fee percent, guarantee a profit.
func DetectArbitrage(odds []float64, feePct float64) ArbitrageResult {
	var impliedSum float64
	for _, o := range odds {
		impliedSum += 1 / o
	}
	threshold := 1 - feePct/100

	result := ArbitrageResult{
		ImpliedSum: impliedSum,
		Threshold:  threshold,
	}
	if impliedSum < threshold {
		result.IsArbitrage = true
		result.ProfitPct = (threshold - impliedSum) * 100
	}
	return result
}

// ExpectedValuePct computes EV as a percentage of stake for an offered price
// against a true (anchor) probability, net of a venue fee percent.
func ExpectedValuePct(trueProb, oddsDecimal, feePct float64) float64 {
	return (trueProb*oddsDecimal-1)*100 - feePct
}

// KellyFraction computes the Kelly-optimal fraction of bankroll for an
// offered price against a true probability, net of a venue fee percent. The
// result is floored at 0 (never recommends a negative stake).
func KellyFraction(trueProb, oddsDecimal, feePct float64) float64 {
	b := oddsDecimal*(1-feePct/100) - 1
	if b <= 0 {
		return 0
	}
	fraction := (trueProb*(b+1) - 1) / b
	if fraction < 0 {
		return 0
	}
	return fraction
}
