package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arb-intel/engine/internal/app"
	"github.com/arb-intel/engine/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the odds-intelligence engine",
	Long: `Starts the odds-intelligence engine, which will:
1. Poll Polymarket, Manifold, Kalshi, PredictIt, and sportsbook odds feeds
   on a fixed interval (the Betfair adapter has no session token and
   fetches nothing)
2. Match equivalent markets across venues
3. Detect arbitrage, positive-EV, and best-price opportunities
4. Serve the current opportunities over HTTP and WebSocket for a human to
   review and act on manually

This process never places a bet.`,
	RunE: runEngine,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	// A missing .env is normal in deployed environments; variables then come
	// from the process environment alone.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
