package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/config"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// settings and appLog are resolved once per invocation, before any
	// subcommand runs.
	settings config.Config
	appLog   *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catsim",
	Short: "Computerized adaptive testing simulator",
	Long: "catsim replays scripted exams through a 3PL adaptive test: it picks the most " +
		"informative item at the current ability estimate, scores it from the script and " +
		"re-estimates ability by maximum likelihood after every response.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			appLog.Sync()
		}
	},
}

// ExecuteContext runs the CLI; cancelling ctx stops in-flight simulations
// between steps.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("log-mode", "", "Logger mode: dev, prod or quiet (overrides CATSIM_LOG_MODE)")
	rootCmd.PersistentFlags().Int("workers", 0, "Concurrent runs for --replications (overrides CATSIM_WORKERS)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable styled table output")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads CATSIM_* variables, applies flag overrides (highest
// priority) and builds the logger.
func loadSettings(cmd *cobra.Command) error {
	cfg, err := config.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.LogMode = m
	}
	if w, _ := cmd.Flags().GetInt("workers"); w != 0 {
		cfg.Workers = w
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	settings = cfg
	appLog = log
	return nil
}

// styledOutput reports whether table output should carry terminal styles.
func styledOutput(cmd *cobra.Command) bool {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
