// Package oddsmath converts between American odds, decimal odds, and
// implied probability.
package oddsmath

import (
	"fmt"
	"math"
)

// InvalidInputError is returned when a conversion is given a value outside
// its domain.
type InvalidInputError struct {
	Value float64
	Want  string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("oddsmath: invalid input %v, want %s", e.Value, e.Want)
}

// AmericanToDecimal converts American odds to decimal odds.
func AmericanToDecimal(american float64) float64 {
	if american > 0 {
		return 1 + american/100
	}
	return 1 + 100/math.Abs(american)
}

// DecimalToAmerican converts decimal odds to American odds.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1 {
		return 0, &InvalidInputError{Value: decimal, Want: "> 1.0"}
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1) * 100)), nil
	}
	return int(math.Round(-100 / (decimal - 1))), nil
}

// DecimalToProbability converts decimal odds to implied probability.
func DecimalToProbability(decimal float64) (float64, error) {
	if decimal <= 1 {
		return 0, &InvalidInputError{Value: decimal, Want: "> 1.0"}
	}
	return 1 / decimal, nil
}

// ProbabilityToDecimal converts implied probability to decimal odds.
func ProbabilityToDecimal(probability float64) (float64, error) {
	if probability <= 0 || probability >= 1 {
		return 0, &InvalidInputError{Value: probability, Want: "in (0, 1)"}
	}
	return 1 / probability, nil
}

// AmericanToProbability converts American odds to implied probability.
func AmericanToProbability(american float64) (float64, error) {
	return DecimalToProbability(AmericanToDecimal(american))
}

// ProbabilityToAmerican converts implied probability to American odds.
func ProbabilityToAmerican(probability float64) (int, error) {
	decimal, err := ProbabilityToDecimal(probability)
	if err != nil {
		return 0, err
	}
	return DecimalToAmerican(decimal)
}

// FormatAmericanOdds renders American odds with an explicit sign, e.g.
// "+110" or "-110".
func FormatAmericanOdds(american int) string {
	if american > 0 {
		return fmt.Sprintf("+%d", american)
	}
	return fmt.Sprintf("%d", american)
}

// Overround sums a set of implied probabilities and subtracts 1. A fair
// market has overround 0; a positive value means the market priced above
// fair (vig).
func Overround(probabilities []float64) float64 {
	var sum float64
	for _, p := range probabilities {
		sum += p
	}
	return sum - 1
}
