package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/model"
)

type fakeAdapter struct {
	name    string
	markets []model.Market
	err     error
	panic   bool
	delay   time.Duration
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	if a.panic {
		panic("fake adapter panic")
	}
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.markets, nil
}

func TestFetchAll_ConcatenatesAllAdapterResults(t *testing.T) {
	a := &fakeAdapter{name: "polymarket", markets: []model.Market{{EventID: "a"}}}
	b := &fakeAdapter{name: "kalshi", markets: []model.Market{{EventID: "b"}, {EventID: "c"}}}

	breakers := NewBreakerRegistry(5, time.Minute)
	markets := FetchAll(context.Background(), []Adapter{a, b}, breakers, time.Second, zap.NewNop())

	if len(markets) != 3 {
		t.Fatalf("len(markets) = %d, want 3", len(markets))
	}
}

func TestFetchAll_FailingAdapterDoesNotAffectOthers(t *testing.T) {
	good := &fakeAdapter{name: "polymarket", markets: []model.Market{{EventID: "a"}}}
	bad := &fakeAdapter{name: "broken", err: errors.New("boom")}

	breakers := NewBreakerRegistry(5, time.Minute)
	markets := FetchAll(context.Background(), []Adapter{good, bad}, breakers, time.Second, zap.NewNop())

	if len(markets) != 1 {
		t.Fatalf("len(markets) = %d, want 1 (only the healthy adapter's market)", len(markets))
	}
}

func TestFetchAll_PanickingAdapterIsRecovered(t *testing.T) {
	good := &fakeAdapter{name: "polymarket", markets: []model.Market{{EventID: "a"}}}
	panicky := &fakeAdapter{name: "flaky", panic: true}

	breakers := NewBreakerRegistry(5, time.Minute)
	markets := FetchAll(context.Background(), []Adapter{good, panicky}, breakers, time.Second, zap.NewNop())

	if len(markets) != 1 {
		t.Fatalf("len(markets) = %d, want 1; a panicking adapter must not crash the fan-out", len(markets))
	}
}

func TestFetchAll_SlowAdapterIsCutOffByTimeout(t *testing.T) {
	slow := &fakeAdapter{name: "slow", delay: 200 * time.Millisecond, markets: []model.Market{{EventID: "a"}}}

	breakers := NewBreakerRegistry(5, time.Minute)
	start := time.Now()
	markets := FetchAll(context.Background(), []Adapter{slow}, breakers, 20*time.Millisecond, zap.NewNop())
	elapsed := time.Since(start)

	if len(markets) != 0 {
		t.Errorf("len(markets) = %d, want 0 for a fetch that exceeded its timeout", len(markets))
	}
	if elapsed > 150*time.Millisecond {
		t.Errorf("FetchAll took %v, want it to respect the per-adapter timeout well under the adapter's own delay", elapsed)
	}
}

func TestFetchAll_SkipsAdapterInCooldown(t *testing.T) {
	breakers := NewBreakerRegistry(1, time.Minute)
	breakers.For("broken").RecordFailure()

	calls := 0
	tracking := &trackingAdapter{fakeAdapter: fakeAdapter{name: "broken", markets: []model.Market{{EventID: "a"}}}, calls: &calls}

	markets := FetchAll(context.Background(), []Adapter{tracking}, breakers, time.Second, zap.NewNop())

	if len(markets) != 0 {
		t.Errorf("expected no markets from an adapter skipped due to cooldown, got %d", len(markets))
	}
	if calls != 0 {
		t.Errorf("expected Fetch to never be called while the breaker is in cooldown, got %d calls", calls)
	}
}

type trackingAdapter struct {
	fakeAdapter
	calls *int
}

func (a *trackingAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	*a.calls++
	return a.fakeAdapter.Fetch(ctx)
}
