// Package mcp exposes the sampler and the project analyzer as MCP tools
// over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/codelens/internal/analyzer"
	"github.com/mvp-joe/codelens/internal/logging"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "codelens"
	ServerVersion = "1.0.0"
)

// Server manages the MCP server lifecycle.
type Server struct {
	mcp    *server.MCPServer
	logger logrus.FieldLogger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger. Logs must not go to stdout, which carries the
// protocol.
func WithLogger(l logrus.FieldLogger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer registers the codelens tools. Relative paths in tool calls are
// resolved against root.
func NewServer(a *analyzer.Analyzer, root string, opts ...ServerOption) *Server {
	s := &Server{logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)
	AddReadFileTool(s.mcp, a.Sampler(), root)
	AddAnalyzeProjectTool(s.mcp, a, root)
	return s
}

// Serve starts the MCP server on stdio and blocks until the client
// disconnects, ctx ends, or the process is signalled.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		errCh <- server.ServeStdio(s.mcp)
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
