package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/ppiankov/noosphere/internal/logging"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is the noosphere release, overridden at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	rootDir string

	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "noosphere",
	Short: "Noosphere - heuristic memory for council deliberation",
	Long: `Noosphere keeps the council's accumulated heuristics.

It assimilates approved community submissions into provisional,
confidence-scored heuristics, and recalls the stored heuristics most
relevant to a deliberation context, grouped by voice.

Noosphere never writes to its stores. Persisting assimilated records is
left to the caller.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose || viper.GetBool("output.verbose"))
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Noosphere.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "noosphere %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.noosphere/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", model.DefaultConfig().Root, "noosphere directory holding the heuristic stores")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))

	setDefaults(model.DefaultConfig())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// setDefaults registers every scalar key so NOOSPHERE_* variables resolve
func setDefaults(cfg *model.Config) {
	viper.SetDefault("ingest.approved_dir", cfg.Ingest.ApprovedDir)
	viper.SetDefault("ingest.min_resonance", cfg.Ingest.MinResonance)
	viper.SetDefault("recall.min_confidence", cfg.Recall.MinConfidence)
	viper.SetDefault("recall.max_results", cfg.Recall.MaxResults)
	viper.SetDefault("recall.format", cfg.Recall.Format)
	viper.SetDefault("recall.voices", cfg.Recall.Voices)
	viper.SetDefault("sources.telos", cfg.Sources.Telos)
	viper.SetDefault("sources.badfaith", cfg.Sources.BadFaith)
	viper.SetDefault("sources.sovereignty", cfg.Sources.Sovereignty)
	viper.SetDefault("sources.phenomenological", cfg.Sources.Phenomenological)
	viper.SetDefault("sources.rights", cfg.Sources.Rights)
	viper.SetDefault("sources.moloch", cfg.Sources.Moloch)
	viper.SetDefault("sources.meta", cfg.Sources.Meta)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.ttl", cfg.Cache.TTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("watch.events_per_second", cfg.Watch.EventsPerSecond)
	viper.SetDefault("watch.burst", cfg.Watch.Burst)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".noosphere"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match NOOSPHERE_*
	viper.SetEnvPrefix("NOOSPHERE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// loadConfig resolves the effective configuration: flags, then NOOSPHERE_*
// environment, then the config file, then built-in defaults. Lists in the
// config file replace the default lists rather than merging into them.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
