// spiraldrift analyzes chat transcripts for Spiral Dynamics value-stage
// markers and semantic drift.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spiraldrift/spiraldrift/internal/compile"
	"github.com/spiraldrift/spiraldrift/internal/config"
	"github.com/spiraldrift/spiraldrift/internal/logging"
	"github.com/spiraldrift/spiraldrift/internal/marker"
)

var (
	cfgPath     string
	markersPath string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spiraldrift",
	Short: "Spiral Dynamics marker scoring and semantic drift analysis for chat transcripts",
	Long: `spiraldrift scans German-language chat transcripts against a weighted
marker taxonomy of Spiral Dynamics value stages (Beige through Koralle),
detects semantic drift between value stages and aggregates everything
into a session profile.

Transcript formats (WhatsApp, Discord, markdown, speaker-colon, block
exports) are auto-detected. The built-in marker taxonomy can be replaced
with --markers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if markersPath != "" {
			cfg.Markers.Path = markersPath
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(cfg.Logging.Level)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "spiraldrift.yaml", "path to config yaml")
	rootCmd.PersistentFlags().StringVar(&markersPath, "markers", "", "marker taxonomy yaml (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadMarkerSet loads the configured taxonomy, falling back to the embedded
// default when no path is set.
func loadMarkerSet() (*marker.MarkerSet, error) {
	if cfg.Markers.Path != "" {
		return marker.LoadFile(cfg.Markers.Path)
	}
	return marker.Default()
}

// loadCompiled loads and compiles the configured taxonomy.
func loadCompiled() (*compile.MarkerSet, error) {
	set, err := loadMarkerSet()
	if err != nil {
		return nil, err
	}
	return compile.Compile(set)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spiraldrift: %v\n", err)
		os.Exit(1)
	}
}
