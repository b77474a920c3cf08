// Package ingestion provides the per-venue adapters that fetch odds and
// convert them into canonical model.Market values, plus the concurrent
// fan-out that runs them with per-adapter fault isolation.
package ingestion

import (
	"context"
	"sync"
	"time"

	"github.com/arb-intel/engine/internal/model"
	"go.uber.org/zap"
)

// Adapter fetches the current markets from one venue. Implementations must
// never panic out of Fetch and must never block past ctx's deadline; any
// failure is represented as a non-nil error with a nil or empty market
// slice, never as a panic or an unbounded hang.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Market, error)
}

// FetchAll runs every adapter concurrently, each under its own timeout and
// fault-isolation cooldown, and concatenates their results. An adapter that
// errors, times out, or panics contributes no markets and does not affect
// any other adapter.
func FetchAll(ctx context.Context, adapters []Adapter, breakers *BreakerRegistry, timeout time.Duration, logger *zap.Logger) []model.Market {
	var wg sync.WaitGroup
	results := make([][]model.Market, len(adapters))

	for i, adapter := range adapters {
		i, adapter := i, adapter
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fetchOne(ctx, adapter, breakers, timeout, logger)
		}()
	}
	wg.Wait()

	var all []model.Market
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

func fetchOne(ctx context.Context, adapter Adapter, breakers *BreakerRegistry, timeout time.Duration, logger *zap.Logger) (markets []model.Market) {
	name := adapter.Name()
	breaker := breakers.For(name)

	if breaker.InCooldown() {
		logger.Debug("adapter-skipped-cooldown", zap.String("adapter", name))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("adapter-panic-recovered", zap.String("adapter", name), zap.Any("panic", r))
			breaker.RecordFailure()
			adapterFailuresTotal.WithLabelValues(name).Inc()
			markets = nil
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fetched, err := adapter.Fetch(callCtx)
	if err != nil {
		logger.Warn("adapter-fetch-failed", zap.String("adapter", name), zap.Error(err))
		breaker.RecordFailure()
		adapterFailuresTotal.WithLabelValues(name).Inc()
		return nil
	}

	breaker.RecordSuccess()
	adapterMarketsFetched.WithLabelValues(name).Set(float64(len(fetched)))

	observed := time.Now().UTC()
	for i := range fetched {
		for j := range fetched[i].Outcomes {
			if fetched[i].Outcomes[j].ObservedAt.IsZero() {
				fetched[i].Outcomes[j].ObservedAt = observed
			}
		}
	}
	return fetched
}
