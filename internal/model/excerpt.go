package model

// ReadStrategy names how an excerpt was produced.
type ReadStrategy string

const (
	ReadFull      ReadStrategy = "full"
	ReadMedium    ReadStrategy = "medium"
	ReadLarge     ReadStrategy = "large"
	ReadStructure ReadStrategy = "structure"
	ReadWindow    ReadStrategy = "window"
)

// Segment is a contiguous block of source lines included in an excerpt.
// Lines are 1-based and inclusive.
type Segment struct {
	Label     string `json:"label" yaml:"label"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

// Len returns the number of lines covered by the segment.
func (s Segment) Len() int {
	if s.EndLine < s.StartLine {
		return 0
	}
	return s.EndLine - s.StartLine + 1
}

// FileExcerpt is a size-bounded textual sample of one file.
// TotalLines is always the true line count of the source file.
type FileExcerpt struct {
	Path       string       `json:"path" yaml:"path"`
	Language   string       `json:"language" yaml:"language"`
	Content    string       `json:"content" yaml:"content"`
	TotalLines int          `json:"total_lines" yaml:"total_lines"`
	ByteSize   int64        `json:"byte_size" yaml:"byte_size"`
	Strategy   ReadStrategy `json:"strategy_used" yaml:"strategy_used"`
	Segments   []Segment    `json:"segments,omitempty" yaml:"segments,omitempty"`
	Fallback   bool         `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// WithPath returns a copy of e reporting path instead of its own.
func (e FileExcerpt) WithPath(path string) FileExcerpt {
	e.Path = path
	e.Segments = append([]Segment(nil), e.Segments...)
	return e
}
