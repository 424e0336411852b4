package model

// DeclarationKind is the kind of a type declaration.
type DeclarationKind string

const (
	KindClass     DeclarationKind = "class"
	KindInterface DeclarationKind = "interface"
	KindEnum      DeclarationKind = "enum"
)

// Parameter is one formal parameter of a method.
type Parameter struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Route is an HTTP entry point inferred from a routing annotation.
type Route struct {
	Verb      string `json:"verb" yaml:"verb"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	StartLine int    `json:"start_line" yaml:"start_line"`
}

// Method is a method or constructor of a declaration.
type Method struct {
	Name          string      `json:"name" yaml:"name"`
	Owner         string      `json:"owner" yaml:"owner"`
	ReturnType    string      `json:"return_type" yaml:"return_type"`
	Parameters    []Parameter `json:"parameters" yaml:"parameters"`
	Annotations   []string    `json:"annotations" yaml:"annotations"`
	Modifiers     []string    `json:"modifiers" yaml:"modifiers"`
	StartLine     int         `json:"start_line" yaml:"start_line"`
	IsAbstract    bool        `json:"is_abstract" yaml:"is_abstract"`
	IsConstructor bool        `json:"is_constructor,omitempty" yaml:"is_constructor,omitempty"`
	Route         *Route      `json:"route,omitempty" yaml:"route,omitempty"`
}

// Field is a field (or record component, or interface constant).
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Annotations []string `json:"annotations" yaml:"annotations"`
	Modifiers   []string `json:"modifiers" yaml:"modifiers"`
	StartLine   int      `json:"start_line" yaml:"start_line"`
	IsInjected  bool     `json:"is_injected" yaml:"is_injected"`
}

// Declaration is a parsed class, interface, or enum. Methods include the
// methods of nested declarations; Method.Owner tells them apart.
type Declaration struct {
	Name                 string          `json:"name" yaml:"name"`
	Kind                 DeclarationKind `json:"kind" yaml:"kind"`
	Parent               string          `json:"parent,omitempty" yaml:"parent,omitempty"`
	StartLine            int             `json:"start_line" yaml:"start_line"`
	EndLine              int             `json:"end_line" yaml:"end_line"`
	Annotations          []string        `json:"annotations" yaml:"annotations"`
	Modifiers            []string        `json:"modifiers" yaml:"modifiers"`
	Supertype            string          `json:"supertype,omitempty" yaml:"supertype,omitempty"`
	Interfaces           []string        `json:"interfaces" yaml:"interfaces"`
	Methods              []Method        `json:"methods" yaml:"methods"`
	Fields               []Field         `json:"fields" yaml:"fields"`
	IsFrameworkComponent bool            `json:"is_framework_component" yaml:"is_framework_component"`
}

// OwnMethods returns the methods declared directly on d.
func (d *Declaration) OwnMethods() []Method {
	out := make([]Method, 0, len(d.Methods))
	for _, m := range d.Methods {
		if m.Owner == d.Name {
			out = append(out, m)
		}
	}
	return out
}

// FileAnalysis is the parser-mode result for one file.
type FileAnalysis struct {
	Path            string        `json:"path" yaml:"path"`
	Package         string        `json:"package" yaml:"package"`
	Imports         []string      `json:"imports" yaml:"imports"`
	Declarations    []Declaration `json:"declarations" yaml:"declarations"`
	TotalLines      int           `json:"total_lines" yaml:"total_lines"`
	HasSyntaxErrors bool          `json:"has_syntax_errors,omitempty" yaml:"has_syntax_errors,omitempty"`
}

// WithPath returns a copy of f reporting path instead of its own.
func (f FileAnalysis) WithPath(path string) FileAnalysis {
	f.Path = path
	return f
}
