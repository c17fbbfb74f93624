// Package cmd implements the wfc command line.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "wfc",
	Short: "Generate tile maps with wave function collapse",
	Long: `wfc fills a grid with tiles so that every pair of neighbours is allowed
by the tileset's adjacency rules, choosing the most constrained cell first.

Tilesets come from a YAML or JSON socket definition, from a text sample whose
characters become tiles, or from the built-in road network.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		switch {
		case verbosity >= 2:
			level = slog.LevelDebug
		case verbosity == 1:
			level = slog.LevelInfo
		}
		wave.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Log more (-v outcomes, -vv every step)")
}

// Execute runs the root command and exits non-zero on failure. An interrupt
// cancels generation in progress.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
