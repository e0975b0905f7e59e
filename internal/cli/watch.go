package cli

import (
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/pipeline"
	"github.com/ppiankov/noosphere/internal/watch"
	"github.com/ppiankov/noosphere/internal/worker"
	"github.com/spf13/cobra"
)

var watchDir string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Assimilate submissions as they arrive in the approved directory",
	Long: `Watch monitors the approved directory and assimilates each new or
changed submission once it settles, printing one JSON heuristic per line.
Events are rate limited per file. Stop with Ctrl-C.

Example:
  noosphere watch
  noosphere watch --approved-dir ./approved/raw`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchDir, "approved-dir", "", "directory of approved submissions (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("approved-dir") {
		cfg.Ingest.ApprovedDir = watchDir
	}

	assimilator := pipeline.NewAssimilator(cfg.Ingest, pipeline.WithLogger(logger))
	limiter := worker.NewLimiter(cfg.Watch.EventsPerSecond, cfg.Watch.Burst)

	out := cmd.OutOrStdout()
	w := watch.New(cfg.Ingest.ApprovedDir, cfg.Ingest.Patterns, assimilator, limiter,
		func(h model.Heuristic) error {
			return pipeline.RenderJSONLine(out, h)
		},
		watch.WithLogger(logger))

	progress("Watching %s (Ctrl-C to stop)", cfg.Ingest.ApprovedDir)
	if err := w.Run(cmd.Context()); err != nil {
		return err
	}

	stats := w.Stats()
	success("Stopped: %d assimilated, %d rejected, %d errors",
		stats.Assimilated, stats.Rejected, stats.Errors)
	return nil
}
