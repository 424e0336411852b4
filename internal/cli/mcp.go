package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codelens/internal/analyzer"
	"github.com/mvp-joe/codelens/internal/mcp"
)

func newMCPCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: `Start the Model Context Protocol (MCP) server so coding assistants can read
and analyze the project in the current directory.

Tools:
  codelens_read_file        adaptive excerpt of one file
  codelens_analyze_project  sampled or parsed analysis of a directory

Example:
  codelens mcp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			cfg, err := loadConfig(root, global)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			a, err := analyzer.New(cfg, analyzer.WithLogger(logger))
			if err != nil {
				return err
			}
			defer a.Close()

			return mcp.NewServer(a, root, mcp.WithLogger(logger)).Serve(cmd.Context())
		},
	}
}
