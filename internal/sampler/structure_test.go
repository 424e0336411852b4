package sampler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codelens/internal/model"
)

func TestStructure_KeepsDeclarationsAndSkipsComments(t *testing.T) {
	t.Parallel()

	src := `package com.example;

import java.util.List;

/**
 * public API for widgets.
 * class Widget is documented here.
 */
@Service
public class WidgetService {
    private final List<String> names;

    /* public void hidden() */
    public void run() {
        names.clear();
    }
}
`
	path := writeFile(t, t.TempDir(), "WidgetService.java", src)

	res := newSampler(t).Read(path, Structure())
	require.True(t, res.Success)

	e := res.Data
	assert.Equal(t, model.ReadStructure, e.Strategy)
	assert.False(t, e.Fallback)
	assert.Equal(t, 17, e.TotalLines)

	assert.Contains(t, e.Content, "Structure view")
	assert.Contains(t, e.Content, "   1: package com.example;\n")
	assert.Contains(t, e.Content, "   3: import java.util.List;\n")
	assert.Contains(t, e.Content, "   9: @Service\n")
	assert.Contains(t, e.Content, "  10: public class WidgetService {\n")
	assert.Contains(t, e.Content, "  11:     private final List<String> names;\n")
	assert.Contains(t, e.Content, "  14:     public void run() {\n")

	assert.NotContains(t, e.Content, "public API for widgets")
	assert.NotContains(t, e.Content, "hidden")
	assert.NotContains(t, e.Content, "names.clear")

	assert.Equal(t, []model.Segment{
		{Label: "structure", StartLine: 1, EndLine: 1},
		{Label: "structure", StartLine: 3, EndLine: 3},
		{Label: "structure", StartLine: 9, EndLine: 11},
		{Label: "structure", StartLine: 14, EndLine: 14},
	}, e.Segments)
}

func TestStructure_PythonDocstrings(t *testing.T) {
	t.Parallel()

	src := `#!/usr/bin/env python
"""Module docstring on one line."""
import os

def helper():
    """
    def not_real():
    """
    return os.getcwd()

if __name__ == "__main__":
    helper()
`
	path := writeFile(t, t.TempDir(), "tool.py", src)

	res := newSampler(t).Read(path, Structure())
	require.True(t, res.Success)

	content := res.Data.Content
	assert.Contains(t, content, "   1: #!/usr/bin/env python\n")
	assert.Contains(t, content, "   3: import os\n")
	assert.Contains(t, content, "   5: def helper():\n")
	assert.Contains(t, content, "  11: if __name__ == \"__main__\":\n")
	assert.NotContains(t, content, "not_real")
	assert.NotContains(t, content, "Module docstring")
}

func TestStructure_FallbackReturnsFirstLinesVerbatim(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 80; i++ {
		lines = append(lines, "x = 1 + 2\n")
	}
	path := writeFile(t, t.TempDir(), "data.txt", strings.Join(lines, ""))

	res := newSampler(t).Read(path, Structure())
	require.True(t, res.Success)

	e := res.Data
	assert.True(t, e.Fallback)
	assert.Equal(t, strings.Join(lines[:50], ""), e.Content)
	assert.Equal(t, 80, e.TotalLines)
	assert.Equal(t, []model.Segment{{Label: "head", StartLine: 1, EndLine: 50}}, e.Segments)
}

func TestStructure_FallbackShortFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "short.txt", "a\nb")

	res := newSampler(t).Read(path, Structure())
	require.True(t, res.Success)
	assert.True(t, res.Data.Fallback)
	assert.Equal(t, "a\nb", res.Data.Content)
}

func TestScanner_Code(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		codes []string
	}{
		{
			name:  "single line block",
			lines: []string{"/* note */", "class A {}"},
			codes: []string{"", "class A {}"},
		},
		{
			name:  "multi line block",
			lines: []string{"/**", "* class B", "*/", "class C {}"},
			codes: []string{"", "", "", "class C {}"},
		},
		{
			name:  "code then open comment",
			lines: []string{"int x; /* start", "class D", "end */ class E", "class F"},
			codes: []string{"int x;", "", "class E", "class F"},
		},
		{
			name:  "trailing one line comment",
			lines: []string{"public void f() { /* x */", "public void g() {"},
			codes: []string{"public void f() {", "public void g() {"},
		},
		{
			name:  "delimiters inside string literals",
			lines: []string{`@GetMapping("/files/*")`, `@RequestMapping(value = "/api/**/*.json")`, "public void two() {"},
			codes: []string{`@GetMapping("/files/*")`, `@RequestMapping(value = "/api/**/*.json")`, "public void two() {"},
		},
		{
			name:  "escaped quote and char literal",
			lines: []string{`String s = "a\"/*"; // done`, `char c = '/'; /* x */ char d = '*';`, "class G {}"},
			codes: []string{`String s = "a\"/*";`, `char c = '/';  char d = '*';`, "class G {}"},
		},
		{
			name:  "paired triple quotes",
			lines: []string{`"""doc"""`, "def f():"},
			codes: []string{"", "def f():"},
		},
		{
			name:  "open triple quote",
			lines: []string{`'''`, "def g():", `'''`, "def h():"},
			codes: []string{"", "", "", "def h():"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sc scanner
			for i, line := range tt.lines {
				assert.Equal(t, tt.codes[i], sc.code(line), "line %d %q", i, line)
			}
		})
	}
}

func TestStructure_CommentMarkersInStrings(t *testing.T) {
	t.Parallel()

	src := `package com.example.web;

@RestController
public class FileController {
    @GetMapping("/files/*")
    public String one() { /* inline */
        return "one";
    }

    @PostMapping("/upload/**")
    public String two() {
        return "two";
    }
}
`
	path := writeFile(t, t.TempDir(), "FileController.java", src)

	res := newSampler(t).Read(path, Structure())
	require.True(t, res.Success)

	content := res.Data.Content
	assert.Contains(t, content, "   5:     @GetMapping(\"/files/*\")\n")
	assert.Contains(t, content, "   6:     public String one() { /* inline */\n")
	assert.Contains(t, content, "  10:     @PostMapping(\"/upload/**\")\n")
	assert.Contains(t, content, "  11:     public String two() {\n")
	assert.NotContains(t, content, "return")
}

func TestStructure_GoSource(t *testing.T) {
	t.Parallel()

	s := newSampler(t)
	res := s.Read("../../testdata/code/go/simple.go", Structure())
	require.True(t, res.Success)

	e := res.Data
	assert.False(t, e.Fallback)
	assert.Equal(t, "go", s.Language(e.Path))
	assert.Contains(t, e.Content, "  15: type Config struct {\n")
	assert.Contains(t, e.Content, "  28: func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {\n")
	assert.NotContains(t, e.Content, "globalConfig")
	assert.NotContains(t, e.Content, "Hello, World!")

	var starts []int
	for _, seg := range e.Segments {
		starts = append(starts, seg.StartLine)
	}
	assert.Equal(t, []int{1, 3, 15, 20, 24, 28}, starts)
}
