package arbmath

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestImpliedProbabilities(t *testing.T) {
	probs := ImpliedProbabilities([]float64{2.0, 4.0})
	if !almostEqual(probs[0], 0.5) || !almostEqual(probs[1], 0.25) {
		t.Errorf("ImpliedProbabilities = %v, want [0.5 0.25]", probs)
	}
}

func TestDetectArbitrage_GuaranteedProfit(t *testing.T) {
	// 2.1 and 2.2 decimal odds on a two-outcome market: 1/2.1 + 1/2.2 ≈ 0.9307
	result := DetectArbitrage([]float64{2.1, 2.2}, 0)
	if !result.IsArbitrage {
		t.Fatal("expected an arbitrage to be detected")
	}
	if result.ProfitPct <= 0 {
		t.Errorf("ProfitPct = %v, want > 0", result.ProfitPct)
	}
}

func TestDetectArbitrage_NoArbitrage(t *testing.T) {
	// 1.9 and 1.9 decimal odds: 1/1.9 + 1/1.9 ≈ 1.0526, above threshold
	result := DetectArbitrage([]float64{1.9, 1.9}, 0)
	if result.IsArbitrage {
		t.Errorf("expected no arbitrage, got ProfitPct %v", result.ProfitPct)
	}
	if result.ProfitPct != 0 {
		t.Errorf("ProfitPct on a non-arbitrage result = %v, want 0", result.ProfitPct)
	}
}

func TestDetectArbitrage_FeeErodesMargin(t *testing.T) {
	// A thin edge (1/2.02 + 1/2.02 = 0.9901) is wiped out by a 2% fee.
	noFee := DetectArbitrage([]float64{2.02, 2.02}, 0)
	withFee := DetectArbitrage([]float64{2.02, 2.02}, 2)

	if !noFee.IsArbitrage {
		t.Fatal("expected an arbitrage with no fee")
	}
	if withFee.IsArbitrage {
		t.Error("expected the 2% fee to erode the arbitrage entirely")
	}
}

func TestExpectedValuePct_PositiveAndNegative(t *testing.T) {
	// True probability 0.55 against decimal odds 2.0 (fair coin price): positive EV.
	ev := ExpectedValuePct(0.55, 2.0, 0)
	if ev <= 0 {
		t.Errorf("ExpectedValuePct = %v, want > 0", ev)
	}

	// True probability 0.45 against decimal odds 2.0: negative EV.
	negEV := ExpectedValuePct(0.45, 2.0, 0)
	if negEV >= 0 {
		t.Errorf("ExpectedValuePct = %v, want < 0", negEV)
	}
}

func TestExpectedValuePct_FeeReducesValue(t *testing.T) {
	noFee := ExpectedValuePct(0.55, 2.0, 0)
	withFee := ExpectedValuePct(0.55, 2.0, 3)
	if withFee >= noFee {
		t.Errorf("fee should reduce EV: noFee=%v withFee=%v", noFee, withFee)
	}
}

func TestKellyFraction_PositiveEdge(t *testing.T) {
	f := KellyFraction(0.55, 2.0, 0)
	if f <= 0 || f >= 1 {
		t.Errorf("KellyFraction = %v, want in (0, 1)", f)
	}
}

func TestKellyFraction_NoEdgeFlooredAtZero(t *testing.T) {
	f := KellyFraction(0.4, 2.0, 0)
	if f != 0 {
		t.Errorf("KellyFraction with no edge = %v, want 0", f)
	}
}

func TestKellyFraction_FeeEliminatesPositiveBWipesToZero(t *testing.T) {
	// A fee large enough to push b <= 0 must floor the fraction at 0 rather
	// than return a negative stake.
	f := KellyFraction(0.55, 1.01, 50)
	if f != 0 {
		t.Errorf("KellyFraction with b <= 0 = %v, want 0", f)
	}
}
