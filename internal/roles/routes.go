package roles

import (
	"strings"

	"github.com/mvp-joe/codelens/internal/model"
)

// VerbAny is used for request mappings that do not restrict the method.
const VerbAny = "ANY"

// Annotation is an annotation with its argument values. The positional
// argument is stored under "value"; string literals are unquoted and
// constants keep their source text (e.g. "RequestMethod.GET").
type Annotation struct {
	Name string
	Args map[string][]string
}

func (a Annotation) first(keys ...string) string {
	for _, k := range keys {
		if vs := a.Args[k]; len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// Spring mapping annotations with a fixed verb.
var mappingVerbs = map[string]string{
	"GetMapping":    "GET",
	"PostMapping":   "POST",
	"PutMapping":    "PUT",
	"DeleteMapping": "DELETE",
	"PatchMapping":  "PATCH",
}

// JAX-RS method designators. Their path comes from a sibling @Path.
var jaxrsVerbs = newSet("GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS")

const (
	requestMapping = "RequestMapping"
	jaxrsPath      = "Path"
)

// IsRouting reports whether name is a recognized routing annotation.
func IsRouting(name string) bool {
	if _, ok := mappingVerbs[name]; ok {
		return true
	}
	if _, ok := jaxrsVerbs[name]; ok {
		return true
	}
	return name == requestMapping
}

// RouteFor returns the route declared by a method's annotations, or nil if
// none of them is a routing annotation. base is the type-level path prefix.
// When several routing annotations are present the first one wins.
func RouteFor(anns []Annotation, base string, line int) *model.Route {
	for _, a := range anns {
		if verb, ok := mappingVerbs[a.Name]; ok {
			return &model.Route{Verb: verb, Path: JoinPath(base, a.first("value", "path")), StartLine: line}
		}
		if a.Name == requestMapping {
			return &model.Route{Verb: requestVerb(a), Path: JoinPath(base, a.first("value", "path")), StartLine: line}
		}
		if _, ok := jaxrsVerbs[a.Name]; ok {
			return &model.Route{Verb: a.Name, Path: JoinPath(base, pathOf(anns)), StartLine: line}
		}
	}
	return nil
}

// BasePath returns the path prefix declared on a type, if any.
func BasePath(anns []Annotation) string {
	for _, a := range anns {
		if a.Name == requestMapping {
			return a.first("value", "path")
		}
	}
	return pathOf(anns)
}

func pathOf(anns []Annotation) string {
	for _, a := range anns {
		if a.Name == jaxrsPath {
			return a.first("value")
		}
	}
	return ""
}

// requestVerb resolves method = RequestMethod.X, defaulting to ANY.
func requestVerb(a Annotation) string {
	m := a.first("method")
	if m == "" {
		return VerbAny
	}
	if i := strings.LastIndexByte(m, '.'); i >= 0 {
		m = m[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(m))
}

// JoinPath joins a type-level prefix and a method path with one slash.
func JoinPath(base, path string) string {
	switch {
	case base == "":
		return path
	case path == "":
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
