package model

import (
	"encoding/json"
	"fmt"
)

// Strategy is the analysis mode chosen for a whole project run.
type Strategy string

const (
	StrategySampled Strategy = "sampled"
	StrategyParsed  Strategy = "parsed"
)

// ProjectInfo is the project classification supplied by the caller.
type ProjectInfo struct {
	IsTargetLanguage  bool   `json:"is_target_language" yaml:"is_target_language"`
	SupportsDeepParse bool   `json:"supports_deep_parse" yaml:"supports_deep_parse"`
	BuildTool         string `json:"build_tool,omitempty" yaml:"build_tool,omitempty"`
}

// RoleEntry is one declaration listed under a role.
type RoleEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Package     string   `json:"package" yaml:"package"`
	File        string   `json:"file" yaml:"file"`
	StartLine   int      `json:"start_line" yaml:"start_line"`
	MethodNames []string `json:"method_names" yaml:"method_names"`
}

// RouteEntry is one routed method under a verb.
type RouteEntry struct {
	DeclarationName string `json:"declaration_name" yaml:"declaration_name"`
	MethodName      string `json:"method_name" yaml:"method_name"`
	Path            string `json:"path,omitempty" yaml:"path,omitempty"`
	StartLine       int    `json:"start_line" yaml:"start_line"`
}

// RoleSummary groups parsed declarations by framework role.
type RoleSummary struct {
	Controllers  []RoleEntry             `json:"controllers" yaml:"controllers"`
	Services     []RoleEntry             `json:"services" yaml:"services"`
	Repositories []RoleEntry             `json:"repositories" yaml:"repositories"`
	Components   []RoleEntry             `json:"components" yaml:"components"`
	Entities     []RoleEntry             `json:"entities" yaml:"entities"`
	Routes       map[string][]RouteEntry `json:"routes" yaml:"routes"`
}

// Hierarchy holds type relationships within the project.
type Hierarchy struct {
	Implementations map[string][]string `json:"implementations" yaml:"implementations"`
}

// Metadata describes how a run went: failures, skips, and caps.
type Metadata struct {
	RunID            string            `json:"run_id" yaml:"run_id"`
	Strategy         Strategy          `json:"strategy" yaml:"strategy"`
	EligibleFiles    int               `json:"eligible_files" yaml:"eligible_files"`
	Errors           map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Skipped          map[string]string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	FilesOverCap     int               `json:"files_over_cap,omitempty" yaml:"files_over_cap,omitempty"`
	SyntaxErrorFiles int               `json:"syntax_error_files,omitempty" yaml:"syntax_error_files,omitempty"`
	Incomplete       bool              `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
}

// ProjectAnalysis is the aggregate result of one analysis run. Exactly one of
// Excerpts (sampled) or Parsed (parsed) is populated, matching Strategy.
// Serialized, whichever one is populated is written under a single "files"
// key, so readers branch on strategy_tag.
type ProjectAnalysis struct {
	Strategy     Strategy
	Excerpts     []FileExcerpt
	Parsed       []FileAnalysis
	RoleSummary  *RoleSummary
	Hierarchy    *Hierarchy
	TotalFiles   int
	TotalLines   int
	ProjectPath  string
	HasReadme    bool
	HasClaudeDoc bool
	Metadata     Metadata
}

type analysisWire[F any] struct {
	Strategy     Strategy     `json:"strategy_tag" yaml:"strategy_tag"`
	Files        F            `json:"files" yaml:"files"`
	RoleSummary  *RoleSummary `json:"role_summary,omitempty" yaml:"role_summary,omitempty"`
	Hierarchy    *Hierarchy   `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
	TotalFiles   int          `json:"total_files" yaml:"total_files"`
	TotalLines   int          `json:"total_lines" yaml:"total_lines"`
	ProjectPath  string       `json:"project_path" yaml:"project_path"`
	HasReadme    bool         `json:"has_readme" yaml:"has_readme"`
	HasClaudeDoc bool         `json:"has_claude_doc" yaml:"has_claude_doc"`
	Metadata     Metadata     `json:"metadata" yaml:"metadata"`
}

func (p ProjectAnalysis) wire() analysisWire[any] {
	var files any
	if p.Strategy == StrategyParsed {
		parsed := p.Parsed
		if parsed == nil {
			parsed = []FileAnalysis{}
		}
		files = parsed
	} else {
		excerpts := p.Excerpts
		if excerpts == nil {
			excerpts = []FileExcerpt{}
		}
		files = excerpts
	}

	return analysisWire[any]{
		Strategy:     p.Strategy,
		Files:        files,
		RoleSummary:  p.RoleSummary,
		Hierarchy:    p.Hierarchy,
		TotalFiles:   p.TotalFiles,
		TotalLines:   p.TotalLines,
		ProjectPath:  p.ProjectPath,
		HasReadme:    p.HasReadme,
		HasClaudeDoc: p.HasClaudeDoc,
		Metadata:     p.Metadata,
	}
}

// MarshalJSON writes the analysis with a single files key.
func (p ProjectAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// MarshalYAML is the YAML counterpart of MarshalJSON.
func (p ProjectAnalysis) MarshalYAML() (any, error) {
	return p.wire(), nil
}

// UnmarshalJSON decodes files into Excerpts or Parsed according to strategy_tag.
func (p *ProjectAnalysis) UnmarshalJSON(data []byte) error {
	var w analysisWire[json.RawMessage]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = ProjectAnalysis{
		Strategy:     w.Strategy,
		RoleSummary:  w.RoleSummary,
		Hierarchy:    w.Hierarchy,
		TotalFiles:   w.TotalFiles,
		TotalLines:   w.TotalLines,
		ProjectPath:  w.ProjectPath,
		HasReadme:    w.HasReadme,
		HasClaudeDoc: w.HasClaudeDoc,
		Metadata:     w.Metadata,
	}
	if len(w.Files) == 0 || string(w.Files) == "null" {
		return nil
	}

	var err error
	if w.Strategy == StrategyParsed {
		err = json.Unmarshal(w.Files, &p.Parsed)
	} else {
		err = json.Unmarshal(w.Files, &p.Excerpts)
	}
	if err != nil {
		return fmt.Errorf("decode files for strategy %q: %w", w.Strategy, err)
	}
	return nil
}

// Paths returns the file paths of the analysis in order.
func (p *ProjectAnalysis) Paths() []string {
	out := make([]string, 0, p.TotalFiles)
	for _, e := range p.Excerpts {
		out = append(out, e.Path)
	}
	for _, f := range p.Parsed {
		out = append(out, f.Path)
	}
	return out
}
