package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/result"
)

// Output formats.
const (
	FormatSummary = "summary"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatText    = "text"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	headingStyle = lipgloss.NewStyle().
		Bold(true).
		MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))
)

// writeEncoded writes v as indented JSON or YAML.
func writeEncoded(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeAnalysis renders an analysis result in format.
func writeAnalysis(w io.Writer, format string, res result.Result[*model.ProjectAnalysis]) error {
	if format != FormatSummary {
		return writeEncoded(w, format, res)
	}
	if !res.Success {
		_, err := lipgloss.Fprintln(w, errorStyle.Render(fmt.Sprintf("%s: %s", res.Error, res.Message)))
		return err
	}
	_, err := lipgloss.Fprint(w, summary(res.Data))
	return err
}

// writeExcerpt renders a read result in format. Text prints the excerpt
// content as is.
func writeExcerpt(w io.Writer, format string, res result.Result[*model.FileExcerpt]) error {
	if format != FormatText {
		return writeEncoded(w, format, res)
	}
	if !res.Success {
		_, err := lipgloss.Fprintln(w, errorStyle.Render(fmt.Sprintf("%s: %s", res.Error, res.Message)))
		return err
	}
	_, err := io.WriteString(w, res.Data.Content)
	return err
}

func summary(pa *model.ProjectAnalysis) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("codelens " + pa.ProjectPath))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Strategy: %s   Files: %d   Lines: %d\n", pa.Strategy, pa.TotalFiles, pa.TotalLines)
	fmt.Fprintf(&b, "README: %s   CLAUDE.md: %s\n", yesNo(pa.HasReadme), yesNo(pa.HasClaudeDoc))
	b.WriteString(mutedStyle.Render("run " + pa.Metadata.RunID))
	b.WriteString("\n")

	switch pa.Strategy {
	case model.StrategyParsed:
		writeRoles(&b, pa)
	default:
		writeExcerpts(&b, pa.Excerpts)
	}
	writeMetadata(&b, pa.Metadata)
	return b.String()
}

func writeExcerpts(b *strings.Builder, excerpts []model.FileExcerpt) {
	if len(excerpts) == 0 {
		return
	}
	b.WriteString(headingStyle.Render("Files"))
	b.WriteString("\n")
	for _, e := range excerpts {
		fmt.Fprintf(b, "  %-50s %-10s %6d lines  %s\n", e.Path, e.Language, e.TotalLines, e.Strategy)
	}
}

func writeRoles(b *strings.Builder, pa *model.ProjectAnalysis) {
	rs := pa.RoleSummary
	if rs == nil {
		return
	}
	groups := []struct {
		name    string
		entries []model.RoleEntry
	}{
		{"Controllers", rs.Controllers},
		{"Services", rs.Services},
		{"Repositories", rs.Repositories},
		{"Components", rs.Components},
		{"Entities", rs.Entities},
	}
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", g.name, len(g.entries))))
		b.WriteString("\n")
		for _, e := range g.entries {
			fmt.Fprintf(b, "  %s %s\n", e.Name, mutedStyle.Render(fmt.Sprintf("%s:%d", e.File, e.StartLine)))
		}
	}

	if len(rs.Routes) > 0 {
		b.WriteString(headingStyle.Render("Routes"))
		b.WriteString("\n")
		verbs := make([]string, 0, len(rs.Routes))
		for v := range rs.Routes {
			verbs = append(verbs, v)
		}
		sort.Strings(verbs)
		for _, v := range verbs {
			for _, r := range rs.Routes[v] {
				fmt.Fprintf(b, "  %-7s %-40s %s.%s\n", v, r.Path, r.DeclarationName, r.MethodName)
			}
		}
	}

	if pa.Hierarchy != nil && len(pa.Hierarchy.Implementations) > 0 {
		b.WriteString(headingStyle.Render("Implementations"))
		b.WriteString("\n")
		ifaces := make([]string, 0, len(pa.Hierarchy.Implementations))
		for i := range pa.Hierarchy.Implementations {
			ifaces = append(ifaces, i)
		}
		sort.Strings(ifaces)
		for _, i := range ifaces {
			fmt.Fprintf(b, "  %s <- %s\n", i, strings.Join(pa.Hierarchy.Implementations[i], ", "))
		}
	}
}

func writeMetadata(b *strings.Builder, md model.Metadata) {
	if md.Incomplete {
		b.WriteString(errorStyle.Render("Run was interrupted; results are partial."))
		b.WriteString("\n")
	}
	if md.FilesOverCap > 0 {
		fmt.Fprintf(b, "%d files over the deep-parse cap were not parsed\n", md.FilesOverCap)
	}
	if md.SyntaxErrorFiles > 0 {
		fmt.Fprintf(b, "%d files parsed with syntax errors\n", md.SyntaxErrorFiles)
	}
	writeNotes(b, "Skipped", md.Skipped, mutedStyle)
	writeNotes(b, "Errors", md.Errors, errorStyle)
}

func writeNotes(b *strings.Builder, title string, notes map[string]string, style lipgloss.Style) {
	if len(notes) == 0 {
		return
	}
	b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", title, len(notes))))
	b.WriteString("\n")
	paths := make([]string, 0, len(notes))
	for p := range notes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(b, "  %s %s\n", p, style.Render(notes[p]))
	}
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
