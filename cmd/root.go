package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var logFormat string

//nolint:gochecknoglobals // Cobra boilerplate
var logLevel string

//nolint:gochecknoglobals // Set once in PersistentPreRunE
var logger = slog.New(slog.DiscardHandler)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "closepro",
	Short: "Score prospect difficulty and grade sales calls",
	Long: `closepro scores how hard a prospect is to sell to, grades recorded or
practice sales calls against a fixed five-phase rubric, and runs roleplay
sessions against an AI-simulated prospect.

Uses Claude API for grading and roleplay. Difficulty, authority, cluster and
rubric commands work offline.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.closepro/config.json)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Diagnostic log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn or error")
}

// initRuntime loads .env and builds the diagnostic logger.
func initRuntime(cmd *cobra.Command, args []string) (err error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	logger, err = newLogger(logFormat, logLevel)
	return err
}

func newLogger(format, level string) (l *slog.Logger, err error) {
	var lvl slog.Level
	err = lvl.UnmarshalText([]byte(level))
	if err != nil {
		err = errors.Errorf("invalid --log-level %q", level)
		return l, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		l = slog.New(slog.NewTextHandler(os.Stderr, opts))
	case "json":
		l = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		err = errors.Errorf("invalid --log-format %q (want text or json)", format)
		return l, err
	}

	return l, err
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// getLogger returns the diagnostic logger.
func getLogger() (result *slog.Logger) {
	result = logger
	return result
}
