// Package storage provides an optional, off-the-critical-path sink that
// appends each scan's ScanResult for inspection outside the running
// process. A storage failure is logged and never delays or fails
// publication to subscribers.
package storage

import (
	"context"

	"github.com/arb-intel/engine/internal/model"
)

// Storage is the interface the Engine appends completed scans to.
type Storage interface {
	// StoreScanResult persists one scan's result.
	StoreScanResult(ctx context.Context, result *model.ScanResult) error

	// Close releases any resources held by the storage backend.
	Close() error
}
