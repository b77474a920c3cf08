package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_KnownVenue(t *testing.T) {
	f := Get("betfair")
	assert.Equal(t, 2.0, f.TradingFeePct, "betfair exchange commission")
	assert.Equal(t, 0.0, f.SettlementFeePct, "betfair settlement fee")
}

func TestGet_UnknownVenueFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Get("default"), Get("some-unlisted-book"))
}

func TestTotalTradingFeePct(t *testing.T) {
	// polymarket: 0, betfair: 2.0, unknown falls back to default: 1.0
	total := TotalTradingFeePct([]string{"polymarket", "betfair", "unknown-venue"})
	assert.Equal(t, 3.0, total)
}

func TestTotalTradingFeePct_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TotalTradingFeePct(nil))
}
