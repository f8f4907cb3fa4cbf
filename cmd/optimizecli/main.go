// Command optimizecli runs the optimization pipeline once against a
// trip described as a JSON file, printing the resulting itinerary to
// stdout. Useful for local testing and for batch/offline runs that don't
// need the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/logging"
	"github.com/antigravity/ourroad-optimizer/internal/optimize"
	"github.com/antigravity/ourroad-optimizer/internal/providers"
)

func main() {
	var inputPath string
	var useLocalTransit bool
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "optimizecli",
		Short: "Optimize a multi-day trip route from a JSON trip file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), inputPath, useLocalTransit, logLevel)
		},
	}

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a JSON-encoded TripInput (required)")
	rootCmd.Flags().BoolVar(&useLocalTransit, "local-transit", true, "use the local schedule-based transit provider for enrichment (no transit provider when false)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	_ = rootCmd.MarkFlagRequired("input")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inputPath string, useLocalTransit bool, logLevel string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	var trip optimize.TripInput
	if err := json.Unmarshal(raw, &trip); err != nil {
		return fmt.Errorf("parsing trip input: %w", err)
	}

	cfg := config.Load()
	log := logging.New("optimizecli", parseLevel(logLevel))

	ps := optimize.ProviderSet{}
	if useLocalTransit {
		ps.Transit = providers.NewLocalScheduleTransitProvider()
	}

	result, err := optimize.OptimizeRoute(ctx, trip, ps, cfg, log)
	if err != nil {
		return fmt.Errorf("optimizing trip: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
