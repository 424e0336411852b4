// Package hierarchy links project interfaces to the classes implementing
// them, directly or through superclasses and sub-interfaces.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/codelens/internal/model"
)

// Build returns, for every interface declared in files, the sorted names of
// the project classes and enums that implement it. Types outside the
// project are ignored. Interfaces with no implementation are omitted.
func Build(files []model.FileAnalysis) *model.Hierarchy {
	g := graph.New(graph.StringHash, graph.Directed())
	kinds := map[string]model.DeclarationKind{}

	for _, f := range files {
		for _, d := range f.Declarations {
			if _, ok := kinds[d.Name]; ok {
				continue
			}
			kinds[d.Name] = d.Kind
			_ = g.AddVertex(d.Name)
		}
	}

	// Edges point from a supertype to the type extending or implementing it.
	for _, f := range files {
		for _, d := range f.Declarations {
			supers := make([]string, 0, len(d.Interfaces)+1)
			if d.Supertype != "" {
				supers = append(supers, d.Supertype)
			}
			supers = append(supers, d.Interfaces...)

			for _, s := range supers {
				name := TypeName(s)
				if _, ok := kinds[name]; !ok {
					continue
				}
				// Duplicate edges come from repeated clauses; the first one wins.
				_ = g.AddEdge(name, d.Name)
			}
		}
	}

	h := &model.Hierarchy{Implementations: map[string][]string{}}
	for name, kind := range kinds {
		if kind != model.KindInterface {
			continue
		}
		var impls []string
		_ = graph.DFS(g, name, func(v string) bool {
			if v != name && kinds[v] != model.KindInterface {
				impls = append(impls, v)
			}
			return false
		})
		if len(impls) > 0 {
			sort.Strings(impls)
			h.Implementations[name] = impls
		}
	}
	return h
}

// TypeName reduces a type reference to its simple name:
// "java.util.Map<K, V>" -> "Map", "Outer.Inner" -> "Inner".
func TypeName(ref string) string {
	if i := strings.IndexByte(ref, '<'); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		ref = ref[i+1:]
	}
	return ref
}
