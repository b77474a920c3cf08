// Package engine implements the scan pipeline: concurrent ingestion,
// cross-venue matching, arbitrage/EV detection, and the in-process
// subscription fabric that broadcasts each scan's results.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arb-intel/engine/internal/ingestion"
	"github.com/arb-intel/engine/internal/matcher"
	"github.com/arb-intel/engine/internal/model"
	"go.uber.org/zap"
)

// Storage is the minimal sink an Engine can append completed scans to. It is
// satisfied structurally by internal/storage.Storage; the Engine holds no
// import-level dependency on that package.
type Storage interface {
	StoreScanResult(ctx context.Context, result *model.ScanResult) error
}

// Subscriber is notified once per completed scan.
type Subscriber func(model.ScanResult)

// subscription is a registered Subscriber plus the handle used to remove it.
type subscription struct {
	handle int
	fn     Subscriber
}

// Engine owns the scan pipeline's entire mutable state: the current Market
// snapshot, the current Opportunity list, and the subscriber registry. It is
// an explicit value constructed at startup — never a package-level
// singleton — so multiple Engines (e.g. in tests) never share state.
type Engine struct {
	cfg      Config
	adapters []ingestion.Adapter
	breakers *ingestion.BreakerRegistry
	storage  Storage
	logger   *zap.Logger

	mu         sync.RWMutex
	markets    map[string]model.Market
	lastResult model.ScanResult

	subMu      sync.Mutex
	subs       []subscription
	nextHandle int

	stop chan struct{}
	done chan struct{}
}

// New constructs an Engine. storage may be nil, in which case scan results
// are never persisted.
func New(cfg Config, adapters []ingestion.Adapter, storage Storage, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		adapters: adapters,
		breakers: ingestion.NewBreakerRegistry(cfg.AdapterFailureLimit, cfg.AdapterCooldown),
		storage:  storage,
		logger:   logger,
		markets:  make(map[string]model.Market),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Subscribe registers cb to be invoked, in registration order, after every
// scan. It returns a handle usable with Unsubscribe.
func (e *Engine) Subscribe(cb Subscriber) int {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.nextHandle++
	handle := e.nextHandle
	e.subs = append(e.subs, subscription{handle: handle, fn: cb})
	return handle
}

// Unsubscribe removes a previously registered subscriber by handle.
func (e *Engine) Unsubscribe(handle int) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for i, s := range e.subs {
		if s.handle == handle {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// Snapshot returns the most recently published scan result.
func (e *Engine) Snapshot() model.ScanResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastResult
}

// Markets returns a copy of the current Market snapshot.
func (e *Engine) Markets() []model.Market {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Market, 0, len(e.markets))
	for _, m := range e.markets {
		out = append(out, m)
	}
	return out
}

// Start runs the scan loop until ctx is cancelled or Stop is called. The
// loop always finishes its current cycle before exiting.
func (e *Engine) Start(ctx context.Context) {
	defer close(e.done)
	ticker := time.NewTicker(e.cfg.ScanInterval)
	defer ticker.Stop()

	e.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stop:
			return
		case <-ticker.C:
			e.scanOnce(ctx)
		}
	}
}

// Stop signals the scan loop to exit after its current cycle and blocks
// until it has.
func (e *Engine) Stop() {
	close(e.stop)
	<-e.done
}

// scanOnce runs exactly one scan cycle: fan-out ingestion, snapshot
// replacement, matching, detection, sort, and publication.
func (e *Engine) scanOnce(ctx context.Context) {
	start := time.Now()

	markets := ingestion.FetchAll(ctx, e.adapters, e.breakers, e.cfg.AdapterTimeout, e.logger)

	snapshot := make(map[string]model.Market, len(markets))
	for _, m := range markets {
		venue := ""
		for v := range m.Venues() {
			venue = v
			break
		}
		snapshot[m.EventID+"_"+venue] = m
	}

	e.mu.Lock()
	e.markets = snapshot
	e.mu.Unlock()

	groups := matcher.Groups(markets, e.cfg.MatchThreshold)

	now := time.Now()
	var opps []model.Opportunity
	for _, g := range groups {
		if arb := detectArbitrage(g, e.cfg, now); arb != nil {
			opps = append(opps, *arb)
			opportunitiesDetectedTotal.WithLabelValues(string(arb.Type)).Inc()
			opportunityProfitPct.Observe(arb.ExpectedProfitPct)
		}
		for _, ev := range detectEV(g, e.cfg, now) {
			opps = append(opps, ev)
			opportunitiesDetectedTotal.WithLabelValues(string(ev.Type)).Inc()
			opportunityProfitPct.Observe(ev.ExpectedProfitPct)
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].ExpectedProfitPct > opps[j].ExpectedProfitPct
	})

	duration := time.Since(start)
	result := model.ScanResult{
		Opportunities:  opps,
		MarketsScanned: len(markets),
		ScanDurationMS: duration.Milliseconds(),
		Timestamp:      now,
	}

	e.mu.Lock()
	e.lastResult = result
	e.mu.Unlock()

	scanDurationSeconds.Observe(duration.Seconds())
	marketsScannedTotal.Set(float64(len(markets)))

	e.notifySubscribers(result)

	if e.storage != nil {
		if err := e.storage.StoreScanResult(ctx, &result); err != nil {
			e.logger.Warn("storage-write-failed", zap.Error(err))
		}
	}
}

func (e *Engine) notifySubscribers(result model.ScanResult) {
	e.subMu.Lock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.subMu.Unlock()

	for _, s := range subs {
		e.invokeSubscriber(s, result)
	}
}

func (e *Engine) invokeSubscriber(s subscription, result model.ScanResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("subscriber-panic-recovered", zap.Any("panic", r), zap.Int("handle", s.handle))
			subscriberErrorsTotal.Inc()
		}
	}()
	s.fn(result)
}
