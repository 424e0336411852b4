package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codelens/internal/analyzer"
	mcputils "github.com/mvp-joe/codelens/internal/mcp-utils"
	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/project"
	"github.com/mvp-joe/codelens/internal/result"
	"github.com/mvp-joe/codelens/internal/sampler"
)

// ReadFileRequest is the argument set of codelens_read_file.
type ReadFileRequest struct {
	Path   string `json:"path"`
	Mode   string `json:"mode,omitempty"`   // smart (default), full, structure, window
	Offset int    `json:"offset,omitempty"` // first line for window mode, 0-based
}

// AnalyzeProjectRequest is the argument set of codelens_analyze_project.
type AnalyzeProjectRequest struct {
	Path string `json:"path,omitempty"` // defaults to the server root
	Deep bool   `json:"deep,omitempty"`
}

// AddReadFileTool registers the codelens_read_file tool.
func AddReadFileTool(s *server.MCPServer, smp *sampler.Sampler, root string) {
	tool := mcp.NewTool(
		"codelens_read_file",
		mcp.WithDescription("Read a source file as a size-bounded excerpt. 'smart' returns small files whole and samples larger ones (head, tail, evenly spaced middle chunks); 'structure' lists only imports and declarations with line numbers; 'window' returns a fixed block of lines from an offset; 'full' returns everything."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path inside the project root, absolute or relative to it")),
		mcp.WithString("mode",
			mcp.Description("smart (default), full, structure, or window")),
		mcp.WithNumber("offset",
			mcp.Description("First line (0-based) for window mode")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createReadFileHandler(smp, root))
}

func createReadFileHandler(smp *sampler.Sampler, root string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req ReadFileRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		mode, err := sampler.ParseMode(req.Mode, req.Offset)
		if err != nil {
			return marshalToolResponse(result.Fail[*model.FileExcerpt](err))
		}
		path, err := resolve(root, req.Path)
		if err != nil {
			return marshalToolResponse(result.Fail[*model.FileExcerpt](err))
		}
		return marshalToolResponse(smp.Read(path, mode))
	}
}

// AddAnalyzeProjectTool registers the codelens_analyze_project tool.
func AddAnalyzeProjectTool(s *server.MCPServer, a *analyzer.Analyzer, root string) {
	tool := mcp.NewTool(
		"codelens_analyze_project",
		mcp.WithDescription("Analyze a project directory. Java projects with deep=true are parsed into declarations, framework roles (controllers, services, repositories, components, entities), HTTP routes and interface implementations; everything else returns an excerpt of every source file. Per-file failures are listed in metadata."),
		mcp.WithString("path",
			mcp.Description("Directory inside the server root, absolute or relative to it (default: server root)")),
		mcp.WithBoolean("deep",
			mcp.Description("Parse Java declarations instead of sampling (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createAnalyzeProjectHandler(a, root))
}

func createAnalyzeProjectHandler(a *analyzer.Analyzer, root string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req AnalyzeProjectRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
		}

		dir, err := resolve(root, req.Path)
		if err != nil {
			return marshalToolResponse(result.Fail[*model.ProjectAnalysis](err))
		}
		return marshalToolResponse(a.Analyze(ctx, dir, project.Detect(dir), req.Deep))
	}
}

// resolve maps a tool path onto the server root. Paths that lead outside
// root, whether absolute or through "..", fail with IOError. Symlinks inside
// root are not followed for this check.
func resolve(root, path string) (string, error) {
	root = filepath.Clean(root)
	target := root
	if path != "" {
		target = path
		if !filepath.IsAbs(path) {
			target = filepath.Join(root, path)
		}
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the project root", result.ErrIO, path)
	}
	return target, nil
}
