package oddsmath

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"positive_110", 110, 2.1},
		{"negative_110", -110, 1 + 100.0/110},
		{"positive_200", 200, 3.0},
		{"negative_200", -200, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmericanToDecimal(tt.american)
			if !almostEqual(got, tt.want) {
				t.Errorf("AmericanToDecimal(%v) = %v, want %v", tt.american, got, tt.want)
			}
		})
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    int
		wantErr bool
	}{
		{"decimal_2.1_maps_to_plus110", 2.1, 110, false},
		{"decimal_1.91_maps_to_minus110", 1 + 100.0/110, -110, false},
		{"decimal_3.0_maps_to_plus200", 3.0, 200, false},
		{"decimal_at_or_below_1_is_invalid", 1.0, 0, true},
		{"decimal_below_1_is_invalid", 0.5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalToAmerican(tt.decimal)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecimalToAmerican(%v) = %v, want %v", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestDecimalToProbability(t *testing.T) {
	got, err := DecimalToProbability(2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 0.5) {
		t.Errorf("DecimalToProbability(2.0) = %v, want 0.5", got)
	}

	if _, err := DecimalToProbability(1.0); err == nil {
		t.Error("expected an error for decimal <= 1")
	}
}

func TestProbabilityToDecimal(t *testing.T) {
	got, err := ProbabilityToDecimal(0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 4.0) {
		t.Errorf("ProbabilityToDecimal(0.25) = %v, want 4.0", got)
	}

	for _, p := range []float64{0, 1, -0.1, 1.1} {
		if _, err := ProbabilityToDecimal(p); err == nil {
			t.Errorf("expected an error for probability %v", p)
		}
	}
}

func TestAmericanToProbability_RoundTrip(t *testing.T) {
	prob, err := AmericanToProbability(-110)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	american, err := ProbabilityToAmerican(prob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if american != -110 {
		t.Errorf("round-trip American(-110) -> probability -> American = %d, want -110", american)
	}
}

func TestFormatAmericanOdds(t *testing.T) {
	tests := []struct {
		american int
		want     string
	}{
		{110, "+110"},
		{-110, "-110"},
		{0, "0"},
	}
	for _, tt := range tests {
		got := FormatAmericanOdds(tt.american)
		if got != tt.want {
			t.Errorf("FormatAmericanOdds(%d) = %q, want %q", tt.american, got, tt.want)
		}
	}
}

func TestOverround(t *testing.T) {
	fair := Overround([]float64{0.5, 0.5})
	if !almostEqual(fair, 0) {
		t.Errorf("Overround of a fair book = %v, want 0", fair)
	}

	vigged := Overround([]float64{0.55, 0.55})
	if !almostEqual(vigged, 0.1) {
		t.Errorf("Overround of a vigged book = %v, want 0.1", vigged)
	}
}

func TestAmericanDecimalRoundTrip_Range(t *testing.T) {
	// American odds are only defined at magnitude >= 100; +100 and -100 both
	// map to decimal 2.0, which converts back as +100.
	for a := 100; a <= 10000; a++ {
		got, err := DecimalToAmerican(AmericanToDecimal(float64(a)))
		if err != nil {
			t.Fatalf("round-trip %+d: %v", a, err)
		}
		if got != a {
			t.Fatalf("round-trip %+d -> %+d", a, got)
		}
	}
	for a := -101; a >= -10000; a-- {
		got, err := DecimalToAmerican(AmericanToDecimal(float64(a)))
		if err != nil {
			t.Fatalf("round-trip %+d: %v", a, err)
		}
		if got != a {
			t.Fatalf("round-trip %+d -> %+d", a, got)
		}
	}
}

func TestDecimalProbabilityRoundTrip_Range(t *testing.T) {
	for d := 1.01; d <= 100; d += 0.07 {
		p, err := DecimalToProbability(d)
		if err != nil {
			t.Fatalf("DecimalToProbability(%v): %v", d, err)
		}
		if math.Abs(1/p-d) >= 1e-9 {
			t.Fatalf("round-trip %v -> %v", d, 1/p)
		}
	}
}
