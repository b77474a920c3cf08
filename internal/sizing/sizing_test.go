package sizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCalculateStakes_NeverExceedsCapital(t *testing.T) {
	stakes := CalculateStakes(1000, []float64{2.1, 2.2})
	require.Len(t, stakes, 2)

	var total float64
	for _, s := range stakes {
		total += s
	}
	assert.LessOrEqual(t, total, 1000.0)
}

func TestCalculateStakes_ProportionalToImpliedProbability(t *testing.T) {
	// Lower odds (higher implied probability) should get the larger stake.
	stakes := CalculateStakes(1000, []float64{1.5, 3.0})
	require.Len(t, stakes, 2)
	assert.Greater(t, stakes[0], stakes[1])
}

func TestCalculateStakes_EqualOddsSplitEvenly(t *testing.T) {
	stakes := CalculateStakes(1000, []float64{2.0, 2.0})
	require.Len(t, stakes, 2)
	assert.True(t, almostEqual(stakes[0], stakes[1]), "equal odds should split evenly, got %v", stakes)
}

func TestCalculateProfit_GuaranteedCashoutIsMinPayout(t *testing.T) {
	stakes := []float64{476.19, 454.55}
	odds := []float64{2.1, 2.2}

	result := CalculateProfit(stakes, odds, 0)

	wantCashout := math.Min(stakes[0]*odds[0], stakes[1]*odds[1])
	assert.True(t, almostEqual(result.GuaranteedCashout, wantCashout),
		"GuaranteedCashout = %v, want %v", result.GuaranteedCashout, wantCashout)
	assert.Greater(t, result.GuaranteedProfit, 0.0)
}

func TestCalculateProfit_FeeReducesProfit(t *testing.T) {
	stakes := []float64{476.19, 454.55}
	odds := []float64{2.1, 2.2}

	noFee := CalculateProfit(stakes, odds, 0)
	withFee := CalculateProfit(stakes, odds, 5)

	assert.Less(t, withFee.GuaranteedProfit, noFee.GuaranteedProfit)
}

func TestCalculateProfit_EmptyStakes(t *testing.T) {
	result := CalculateProfit(nil, nil, 0)
	assert.Equal(t, 0.0, result.GuaranteedCashout)
}

func TestCalculateWorstCaseLoss_FlooredAtZero(t *testing.T) {
	// Stakes that guarantee a break-even-or-better outcome should report zero worst-case loss.
	loss := CalculateWorstCaseLoss([]float64{100, 100}, []float64{2.0, 2.0})
	assert.Equal(t, 0.0, loss)
}

func TestCalculateWorstCaseLoss_PositiveWhenUnderfunded(t *testing.T) {
	loss := CalculateWorstCaseLoss([]float64{100, 100}, []float64{1.5, 1.5})
	assert.Greater(t, loss, 0.0)
}
