package storage

import (
	"context"
	"fmt"

	"github.com/arb-intel/engine/internal/model"
	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by logging a structured summary of each
// scan. It is the default storage backend.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{logger: logger}
}

// StoreScanResult logs one line per opportunity in the scan, plus a scan
// summary line.
func (c *ConsoleStorage) StoreScanResult(ctx context.Context, result *model.ScanResult) error {
	c.logger.Info("scan-result",
		zap.Time("timestamp", result.Timestamp),
		zap.Int("markets-scanned", result.MarketsScanned),
		zap.Int64("scan-duration-ms", result.ScanDurationMS),
		zap.Int("opportunities", len(result.Opportunities)))

	for _, opp := range result.Opportunities {
		c.logger.Info("opportunity",
			zap.String("id", opp.ID),
			zap.String("type", string(opp.Type)),
			zap.String("event", opp.EventName),
			zap.Float64("profit-pct", opp.ExpectedProfitPct),
			zap.Float64("total-stake", opp.TotalStake),
			zap.String("risk", string(opp.Risk)))
	}

	if len(result.Opportunities) > 0 {
		fmt.Printf("scan at %s: %d markets, %d opportunities\n",
			result.Timestamp.Format("15:04:05"), result.MarketsScanned, len(result.Opportunities))
	}

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
