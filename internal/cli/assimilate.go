package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrNothingAssimilated is returned when a run produced no heuristics.
// The report has already been printed; callers exit 1 without a message.
var ErrNothingAssimilated = errors.New("nothing assimilated")

var (
	submissionPath string
	approvedDir    string
	dryRun         bool
	since          string
	concurrency    int
)

// assimilateCmd represents the assimilate command
var assimilateCmd = &cobra.Command{
	Use:   "assimilate",
	Short: "Turn approved submissions into provisional heuristics",
	Long: `Assimilate scores approved community submissions:
- Measure resonance against each voice's lexicon
- Reject submissions that resonate with no voice
- Extract the longest prescriptive claim
- Reject claims that contradict the treatise
- Emit a provisional heuristic (confidence 0.5) per accepted submission

Records are printed as JSON and never written to the stores.
Exit status is 1 when nothing was assimilated.

Example:
  noosphere assimilate
  noosphere assimilate --submission-path ./approved/raw/oversight.md
  noosphere assimilate --approved-dir ./approved/raw --since 2026-01-01 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runAssimilate,
}

func init() {
	rootCmd.AddCommand(assimilateCmd)

	assimilateCmd.Flags().StringVar(&submissionPath, "submission-path", "", "assimilate a single submission file")
	assimilateCmd.Flags().StringVar(&approvedDir, "approved-dir", "", "directory of approved submissions (default from config)")
	assimilateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "mark the report as a dry run")
	assimilateCmd.Flags().StringVar(&since, "since", "", "only submissions modified at or after this time (RFC3339 or YYYY-MM-DD)")
	assimilateCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
}

func runAssimilate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("approved-dir") {
		cfg.Ingest.ApprovedDir = approvedDir
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	sinceTime, err := pipeline.ParseSince(since)
	if err != nil {
		return err
	}

	assimilator := pipeline.NewAssimilator(cfg.Ingest,
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Concurrency.Workers),
		pipeline.WithDryRun(dryRun))

	var heuristics []model.Heuristic
	if submissionPath != "" {
		h, err := assimilator.AssimilateFile(submissionPath)
		if err != nil {
			return fmt.Errorf("assimilate %s: %w", submissionPath, err)
		}
		if h != nil {
			heuristics = append(heuristics, *h)
		}
	} else {
		logger.Debug("assimilating directory",
			zap.String("dir", cfg.Ingest.ApprovedDir),
			zap.Int("workers", cfg.Concurrency.Workers))

		heuristics, err = assimilator.AssimilateDir(cmd.Context(), cfg.Ingest.ApprovedDir, sinceTime)
		if err != nil {
			return err
		}
	}

	report := model.NewAssimilationReport(heuristics, dryRun)
	if err := pipeline.RenderJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if verbose {
		if report.AssimilatedCount > 0 {
			success("Assimilated %d submission(s)", report.AssimilatedCount)
		} else {
			failure("No submissions assimilated")
		}
	}

	if report.AssimilatedCount == 0 {
		return ErrNothingAssimilated
	}
	return nil
}
