package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/ingestion"
	"github.com/arb-intel/engine/internal/model"
)

// stubAdapter returns a fixed set of markets, or an error if failNext is set.
type stubAdapter struct {
	name     string
	markets  []model.Market
	failNext bool
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	if a.failNext {
		return nil, errors.New("stub adapter failure")
	}
	return a.markets, nil
}

func newTestEngine(adapters []ingestion.Adapter) *Engine {
	return New(Config{
		ScanInterval:          20 * time.Millisecond,
		MinArbitrageProfitPct: 0.1,
		MinEVPct:              3.0,
		DefaultStakeUSD:       1000,
		MatchThreshold:        0.45,
		AdapterTimeout:        time.Second,
		AdapterFailureLimit:   5,
		AdapterCooldown:       time.Minute,
	}, adapters, nil, zap.NewNop())
}

func TestEngine_ScanPublishesToSubscribers(t *testing.T) {
	adapterA := &stubAdapter{name: "polymarket", markets: []model.Market{
		{EventID: "a", EventName: "Will X win?", Category: "politics", MarketType: model.MarketBinary,
			Outcomes: []model.Outcome{{Name: "Yes", Venue: "polymarket", OddsDecimal: 2.2}}},
	}}
	adapterB := &stubAdapter{name: "kalshi", markets: []model.Market{
		{EventID: "b", EventName: "Will X win?", Category: "politics", MarketType: model.MarketBinary,
			Outcomes: []model.Outcome{{Name: "No", Venue: "kalshi", OddsDecimal: 2.1}}},
	}}

	eng := newTestEngine([]ingestion.Adapter{adapterA, adapterB})

	received := make(chan model.ScanResult, 1)
	eng.Subscribe(func(r model.ScanResult) {
		select {
		case received <- r:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Start(ctx)
	defer eng.Stop()

	select {
	case result := <-received:
		if result.MarketsScanned != 2 {
			t.Errorf("MarketsScanned = %d, want 2", result.MarketsScanned)
		}
		if len(result.Opportunities) == 0 {
			t.Error("expected at least one opportunity from the matched arbitrage pair")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a scan result")
	}
}

func TestEngine_SnapshotReflectsLastScan(t *testing.T) {
	eng := newTestEngine([]ingestion.Adapter{&stubAdapter{name: "polymarket"}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Start(ctx)
	defer eng.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !eng.Snapshot().Timestamp.IsZero() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for a non-zero scan snapshot")
}

func TestEngine_UnsubscribeStopsNotifications(t *testing.T) {
	eng := newTestEngine([]ingestion.Adapter{&stubAdapter{name: "polymarket"}})

	count := 0
	handle := eng.Subscribe(func(model.ScanResult) { count++ })
	eng.Unsubscribe(handle)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	eng.Stop()

	if count != 0 {
		t.Errorf("expected 0 notifications after unsubscribe, got %d", count)
	}
}

func TestEngine_SubscriberPanicIsRecovered(t *testing.T) {
	eng := newTestEngine([]ingestion.Adapter{&stubAdapter{name: "polymarket"}})

	done := make(chan struct{})
	eng.Subscribe(func(model.ScanResult) {
		defer close(done)
		panic("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Start(ctx)
	defer eng.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was never invoked")
	}

	// The engine must still be responsive after a panicking subscriber.
	time.Sleep(50 * time.Millisecond)
	if eng.Snapshot().Timestamp.IsZero() {
		t.Error("expected the engine to keep scanning after a subscriber panic")
	}
}
