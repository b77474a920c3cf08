// Package app wires the engine's collaborators together into a runnable
// process: configuration, logging, venue adapters, storage, the scan engine,
// and the HTTP/WebSocket surface.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/engine"
	"github.com/arb-intel/engine/internal/storage"
	"github.com/arb-intel/engine/pkg/config"
	"github.com/arb-intel/engine/pkg/healthprobe"
	"github.com/arb-intel/engine/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.Probe
	httpServer    *httpserver.Server
	engine        *engine.Engine
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
