package cli

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/ppiankov/noosphere/internal/cache"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/ppiankov/noosphere/internal/recall"
	"github.com/ppiankov/noosphere/internal/sources"
	"github.com/ppiankov/noosphere/internal/worker"
	"github.com/spf13/cobra"
)

var (
	recallContext string
	voices        string
	minConfidence float64
	format        string
	maxResults    int
	noCache       bool
)

// recallCmd represents the recall command
var recallCmd = &cobra.Command{
	Use:   "recall",
	Short: "Retrieve the heuristics most relevant to a deliberation context",
	Long: `Recall loads every heuristic store and:
- Drops records below the confidence threshold
- Keeps only the requested voices
- Scores relevance by word overlap, signatures and markers
- Returns the top results grouped by voice

Example:
  noosphere recall --context "corporate exploitation of systems"
  noosphere recall --context "consent" --voices Enlightenment,Transcendentalist --format simple
  noosphere recall batch contexts.txt`,
	Args: cobra.NoArgs,
	RunE: runRecall,
}

// recallBatchCmd represents the recall batch command
var recallBatchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Recall for many contexts from a file in parallel",
	Long: `Batch reads one context per line (blank lines and # comments are
skipped, duplicates removed), recalls each concurrently against a shared
cached view of the stores, and prints the reports in input order.

Example:
  noosphere recall batch contexts.txt --format simple`,
	Args: cobra.ExactArgs(1),
	RunE: runRecallBatch,
}

func init() {
	rootCmd.AddCommand(recallCmd)
	recallCmd.AddCommand(recallBatchCmd)

	recallCmd.Flags().StringVar(&recallContext, "context", "", "current deliberation context or proposal")
	_ = recallCmd.MarkFlagRequired("context")

	// Shared with recall batch
	recallCmd.PersistentFlags().StringVar(&voices, "voices", "all", `comma-separated voices to include, or "all"`)
	recallCmd.PersistentFlags().Float64Var(&minConfidence, "min-confidence", recall.DefaultMinConfidence, "minimum confidence threshold")
	recallCmd.PersistentFlags().StringVar(&format, "format", string(recall.FormatDialectical), "output format (dialectical, simple)")
	recallCmd.PersistentFlags().IntVar(&maxResults, "max-results", recall.DefaultMaxResults, "maximum heuristics to return")
	recallCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the in-process store cache")
}

func runRecall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reporter, err := newReporter(cmd, cfg, false)
	if err != nil {
		return err
	}

	report, err := reporter.RecallReport(cmd.Context(), recallContext)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

func runRecallBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	contexts, err := worker.ReadLines(file)
	if err != nil {
		return err
	}

	reporter, err := newReporter(cmd, cfg, !noCache && cfg.Cache.Enabled)
	if err != nil {
		return err
	}

	if verbose {
		progress("Recalling %d contexts with %d workers...", len(contexts), cfg.Concurrency.Workers)
	}

	processor := worker.NewBatchProcessor(cfg.Concurrency.Workers)
	results := processor.RecallContexts(cmd.Context(), reporter, contexts)

	out := cmd.OutOrStdout()
	var failed *multierror.Error
	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			failure("%s: %v", res.Context, res.Error)
			failed = multierror.Append(failed, fmt.Errorf("recall %q: %w", res.Context, res.Error))
			continue
		}
		fmt.Fprintf(out, "# %s\n%s\n\n", res.Context, res.Report)
	}

	if verbose {
		success("%d/%d contexts recalled", len(results)-failures, len(results))
	}
	return failed.ErrorOrNil()
}

// newReporter builds the recall pipeline from configuration. Flags that were
// set explicitly override the configured recall defaults.
func newReporter(cmd *cobra.Command, cfg *model.Config, cached bool) (*recall.Reporter, error) {
	flags := cmd.Flags()
	if flags.Changed("voices") {
		cfg.Recall.Voices = voices
	}
	if flags.Changed("min-confidence") {
		cfg.Recall.MinConfidence = minConfidence
	}
	if flags.Changed("format") {
		cfg.Recall.Format = format
	}
	if flags.Changed("max-results") {
		cfg.Recall.MaxResults = maxResults
	}

	if cfg.Recall.MaxResults < 0 {
		return nil, fmt.Errorf("--max-results must not be negative, got %d", cfg.Recall.MaxResults)
	}

	outFormat, err := recall.ParseFormat(cfg.Recall.Format)
	if err != nil {
		return nil, err
	}

	loaderOpts := []sources.LoaderOption{sources.WithLoaderLogger(logger)}
	if cached {
		loaderOpts = append(loaderOpts, sources.WithCache(cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL), cfg.Cache.TTL))
	}
	loader := sources.NewLoader(sources.NewRegistry(cfg), loaderOpts...)
	engine := recall.NewEngine(loader, recall.WithLogger(logger))

	template := recall.Query{
		Voices:        recall.ParseVoices(cfg.Recall.Voices),
		MinConfidence: cfg.Recall.MinConfidence,
		MaxResults:    cfg.Recall.MaxResults,
	}
	return recall.NewReporter(engine, template, outFormat), nil
}
