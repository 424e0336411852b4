// Package cli implements the codelens command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/codelens/internal/config"
	"github.com/mvp-joe/codelens/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose   bool
	logFormat string
}

// NewRootCmd builds the codelens command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "codelens",
		Short: "Codelens - size-bounded views of source projects",
		Long: `Codelens reads source projects for documentation tools and coding assistants.

It renders files as adaptive excerpts (whole, head/tail, sampled, structure-only
or windowed) and parses Java projects into declarations, framework roles, HTTP
routes and interface implementations.

Configuration is read from ~/.codelens/config.yml, <project>/.codelens/config.yml,
<project>/.env and CODELENS_* environment variables, in increasing priority.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: text or json (overrides config)")

	root.AddCommand(
		newAnalyzeCmd(flags),
		newReadCmd(flags),
		newMCPCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration for dir and applies global flags.
func loadConfig(dir string, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfigFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	return cfg, nil
}

// newLogger logs to stderr; stdout is reserved for results.
func newLogger(cfg *config.Config, stderr io.Writer) *logrus.Logger {
	return logging.New(cfg.Logging, stderr)
}

// projectDir resolves the optional path argument to an absolute directory.
func projectDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}
