package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codelens/internal/sampler"
)

type readFlags struct {
	mode   string
	offset int
	format string
}

func newReadCmd(global *globalFlags) *cobra.Command {
	flags := &readFlags{}

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print a size-bounded excerpt of one file",
		Long: `Read renders one file the way analyze samples it.

Modes:
  smart      whole file if small, head and tail if medium, head, tail and
             evenly spaced middle samples if large (default)
  full       the whole file
  structure  imports, declarations and decorators with line numbers
  window     a fixed block of lines starting at --offset

Examples:
  codelens read src/main/java/App.java --mode structure
  codelens read big.log.py --mode window --offset 1200
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, args[0], global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", string(sampler.ModeSmart), "Read mode: smart, full, structure or window")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "First line (0-based) for window mode")
	cmd.Flags().StringVarP(&flags.format, "format", "f", FormatText, "Output format: text, json or yaml")
	return cmd
}

func runRead(cmd *cobra.Command, path string, global *globalFlags, flags *readFlags) error {
	switch flags.format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", flags.format)
	}
	mode, err := sampler.ParseMode(flags.mode, flags.offset)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	cfg, err := loadConfig(filepath.Dir(abs), global)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	s, err := sampler.New(cfg.Sampling,
		sampler.WithLanguages(cfg.Paths.CodeExtensions()),
		sampler.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.Read(abs, mode)
	if err := writeExcerpt(cmd.OutOrStdout(), flags.format, res); err != nil {
		return err
	}
	if !res.Success {
		return res.Err()
	}
	return nil
}
