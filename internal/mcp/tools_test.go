package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codelens/internal/analyzer"
	"github.com/mvp-joe/codelens/internal/config"
	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/result"
)

// Test Plan for MCP tools:
// - Tools register on a server without panicking
// - codelens_read_file resolves relative paths, honours mode and offset, and
//   reports failures inside the Result envelope
// - Missing path and unknown modes are rejected
// - Paths that leave the server root are rejected with IOError
// - codelens_analyze_project defaults to the server root, detects Java projects,
//   and switches to parsed mode when deep is requested
// - The analysis payload carries its per-file results under a single files key

func newTestAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	a, err := analyzer.New(config.Default())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) result.Result[T] {
	t.Helper()
	require.False(t, res.IsError)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	var out result.Result[T]
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestNewServer_RegistersTools(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		s := NewServer(newTestAnalyzer(t), t.TempDir())
		assert.NotNil(t, s.mcp)
	})
}

func TestReadFileHandler(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var b strings.Builder
	for i := 1; i <= 300; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.py"), []byte(b.String()), 0644))

	h := createReadFileHandler(newTestAnalyzer(t).Sampler(), root)

	t.Run("smart relative path", func(t *testing.T) {
		t.Parallel()
		out := decode[*model.FileExcerpt](t, call(t, h, map[string]any{"path": "notes.py"}))
		require.True(t, out.Success)
		assert.Equal(t, model.ReadFull, out.Data.Strategy)
		assert.Equal(t, 300, out.Data.TotalLines)
		assert.Equal(t, "python", out.Data.Language)
	})

	t.Run("window with string offset", func(t *testing.T) {
		t.Parallel()
		out := decode[*model.FileExcerpt](t, call(t, h, map[string]any{
			"path":   filepath.Join(root, "notes.py"),
			"mode":   "window",
			"offset": "250",
		}))
		require.True(t, out.Success)
		assert.Equal(t, model.ReadWindow, out.Data.Strategy)
		require.Len(t, out.Data.Segments, 1)
		assert.Equal(t, model.Segment{Label: "window", StartLine: 251, EndLine: 300}, out.Data.Segments[0])
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		out := decode[*model.FileExcerpt](t, call(t, h, map[string]any{"path": "gone.py"}))
		assert.False(t, out.Success)
		assert.Equal(t, result.KindIO, out.Error)
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Parallel()
		out := decode[*model.FileExcerpt](t, call(t, h, map[string]any{"path": "notes.py", "mode": "everything"}))
		assert.False(t, out.Success)
		assert.Equal(t, result.KindConfig, out.Error)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		res := call(t, h, map[string]any{})
		assert.True(t, res.IsError)
	})

	t.Run("paths outside root", func(t *testing.T) {
		t.Parallel()
		outside := filepath.Join(filepath.Dir(root), "secret.txt")
		for _, path := range []string{"../secret.txt", "sub/../../secret.txt", outside} {
			out := decode[*model.FileExcerpt](t, call(t, h, map[string]any{"path": path}))
			assert.False(t, out.Success, path)
			assert.Equal(t, result.KindIO, out.Error, path)
			assert.Contains(t, out.Message, "outside the project root", path)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "srv", "project")

	tests := []struct {
		name string
		path string
		want string
		ok   bool
	}{
		{name: "empty is root", path: "", want: root, ok: true},
		{name: "relative", path: "src/App.java", want: filepath.Join(root, "src", "App.java"), ok: true},
		{name: "dot", path: ".", want: root, ok: true},
		{name: "absolute inside", path: filepath.Join(root, "pom.xml"), want: filepath.Join(root, "pom.xml"), ok: true},
		{name: "dotdot file name", path: "..hidden", want: filepath.Join(root, "..hidden"), ok: true},
		{name: "parent", path: "..", ok: false},
		{name: "escaping relative", path: "a/../../other", ok: false},
		{name: "absolute outside", path: filepath.Join(string(filepath.Separator), "etc", "passwd"), ok: false},
		{name: "sibling prefix", path: root + "-other", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolve(root, tt.path)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, result.ErrIO)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeProjectHandler(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project/>\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# demo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Hello.java"),
		[]byte("package demo;\n\n@Service\npublic class Hello {\n    public String hi() { return \"hi\"; }\n}\n"), 0644))

	h := createAnalyzeProjectHandler(newTestAnalyzer(t), root)

	shallow := decode[*model.ProjectAnalysis](t, call(t, h, map[string]any{}))
	require.True(t, shallow.Success)
	assert.Equal(t, model.StrategySampled, shallow.Data.Strategy)
	assert.Equal(t, []string{"Hello.java", "README.md", "pom.xml"}, shallow.Data.Paths())
	assert.True(t, shallow.Data.HasReadme)

	deepRes := call(t, h, map[string]any{"path": ".", "deep": true})
	raw, ok := mcp.AsTextContent(deepRes.Content[0])
	require.True(t, ok)
	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw.Text), &envelope))
	assert.Equal(t, `"parsed"`, string(envelope.Data["strategy_tag"]))
	assert.Contains(t, envelope.Data, "files")
	assert.NotContains(t, envelope.Data, "parsed")
	assert.NotContains(t, envelope.Data, "excerpts")
	var files []map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data["files"], &files))
	require.Len(t, files, 1)
	assert.Equal(t, "Hello.java", files[0]["path"])
	assert.Contains(t, files[0], "declarations")

	deep := decode[*model.ProjectAnalysis](t, deepRes)
	require.True(t, deep.Success)
	assert.Equal(t, model.StrategyParsed, deep.Data.Strategy)
	require.NotNil(t, deep.Data.RoleSummary)
	require.Len(t, deep.Data.RoleSummary.Services, 1)
	assert.Equal(t, "Hello", deep.Data.RoleSummary.Services[0].Name)

	missing := decode[*model.ProjectAnalysis](t, call(t, h, map[string]any{"path": "nowhere"}))
	assert.False(t, missing.Success)
	assert.Equal(t, result.KindIO, missing.Error)

	escaped := decode[*model.ProjectAnalysis](t, call(t, h, map[string]any{"path": ".."}))
	assert.False(t, escaped.Success)
	assert.Equal(t, result.KindIO, escaped.Error)
}
