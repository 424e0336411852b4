package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/codelens/internal/analyzer"
	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/project"
	"github.com/mvp-joe/codelens/internal/strategy"
	"github.com/mvp-joe/codelens/internal/watcher"
)

type analyzeFlags struct {
	deep   bool
	format string
	quiet  bool
	watch  bool
}

func newAnalyzeCmd(global *globalFlags) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project directory",
		Long: `Analyze walks a project and reports on every source file.

By default every file is sampled into a size-bounded excerpt. With --deep, Java
projects (pom.xml, build.gradle, build.xml or src/main/java) are parsed instead,
reporting declarations, controllers, services, repositories, components,
entities, HTTP routes and interface implementations.

Examples:
  # Summarize the current directory
  codelens analyze

  # Parse a Java project and print JSON
  codelens analyze ./shop --deep --format json

  # Re-run whenever files change
  codelens analyze --deep --watch
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.deep, "deep", false, "Parse Java declarations instead of sampling")
	cmd.Flags().StringVarP(&flags.format, "format", "f", FormatSummary, "Output format: summary, json or yaml")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Disable progress bars")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Watch for file changes and re-run the analysis")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, global *globalFlags, flags *analyzeFlags) error {
	switch flags.format {
	case FormatSummary, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want summary, json or yaml)", flags.format)
	}

	root, err := projectDir(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root, global)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	opts := []analyzer.Option{analyzer.WithLogger(logger)}
	if !flags.quiet {
		opts = append(opts, analyzer.WithProgress(newProgressReporter(cmd.ErrOrStderr())))
	}
	a, err := analyzer.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := project.Detect(root)
	out := cmd.OutOrStdout()

	res := a.Analyze(ctx, root, info, flags.deep)
	if err := writeAnalysis(out, flags.format, res); err != nil {
		return err
	}
	if !res.Success {
		return res.Err()
	}
	if !flags.watch {
		return nil
	}
	return watchAndAnalyze(ctx, a, root, info, flags, out, logger)
}

// watchAndAnalyze re-runs the analysis after every debounced batch of
// changes until ctx is done.
func watchAndAnalyze(ctx context.Context, a *analyzer.Analyzer, root string, info model.ProjectInfo,
	flags *analyzeFlags, out io.Writer, logger logrus.FieldLogger) error {
	strat := strategy.Select(info, flags.deep)

	w, err := watcher.New(root,
		watcher.WithIgnoreDir(a.IgnoreDir),
		watcher.WithFileFilter(func(name string) bool { return a.Eligible(name, strat) }),
		watcher.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		logger.WithField("changed", len(files)).Info("files changed, re-analyzing")
		if err := writeAnalysis(out, flags.format, a.Analyze(ctx, root, info, flags.deep)); err != nil {
			logger.WithError(err).Error("failed to write analysis")
		}
	})
	if err != nil {
		return err
	}

	logger.WithField("root", root).Info("watching for changes (Ctrl+C to stop)")
	<-ctx.Done()
	return nil
}
