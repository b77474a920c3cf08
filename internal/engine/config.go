package engine

import "time"

// Config holds the detector and scan-loop tunables the Engine needs. It is
// deliberately decoupled from pkg/config.Config so this package has no
// dependency on env parsing; the CLI launcher maps the loaded configuration
// into this struct.
type Config struct {
	ScanInterval          time.Duration
	MinArbitrageProfitPct float64
	MinEVPct              float64
	DefaultStakeUSD       float64
	MatchThreshold        float64
	AdapterTimeout        time.Duration
	AdapterFailureLimit   int
	AdapterCooldown       time.Duration
}
