package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "arb-intel",
	Short: "Cross-market odds-intelligence engine",
	Long: `arb-intel scans prediction markets and sportsbooks for arbitrage and
positive-expected-value opportunities.

It polls Polymarket, Manifold, Kalshi, PredictIt, and configured sportsbook
odds feeds (a Betfair adapter is wired in but has no session token, so it
fetches nothing), matches equivalent markets across venues, and surfaces
advisory bet-sizing instructions over HTTP and WebSocket. It never places a
bet or touches a wallet; every opportunity it reports is for a human to
review and act on manually.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
