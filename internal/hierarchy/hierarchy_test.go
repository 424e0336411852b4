package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/codelens/internal/model"
)

// Test Plan for Build:
// - Direct implementations are listed under the interface
// - Subclasses inherit their superclass's interfaces
// - Implementers of a sub-interface count for the parent interface
// - External supertypes and interfaces are ignored
// - Generic and qualified references resolve to simple names
// - Cycles in malformed code terminate

func decl(name string, kind model.DeclarationKind, super string, ifaces ...string) model.Declaration {
	return model.Declaration{Name: name, Kind: kind, Supertype: super, Interfaces: ifaces}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	files := []model.FileAnalysis{
		{Path: "api/OrderApi.java", Declarations: []model.Declaration{
			decl("OrderApi", model.KindInterface, ""),
			decl("AdminOrderApi", model.KindInterface, "", "com.example.api.OrderApi"),
			decl("Unused", model.KindInterface, ""),
		}},
		{Path: "impl/OrderBean.java", Declarations: []model.Declaration{
			decl("OrderBean", model.KindClass, "", "OrderApi", "java.io.Serializable"),
			decl("AuditedOrderBean", model.KindClass, "OrderBean"),
			decl("AdminBean", model.KindClass, "BaseBean<String>", "AdminOrderApi"),
			decl("Status", model.KindEnum, "", "Comparable<Status>", "OrderApi"),
		}},
	}

	h := Build(files)

	assert.Equal(t, map[string][]string{
		"OrderApi":      {"AdminBean", "AuditedOrderBean", "OrderBean", "Status"},
		"AdminOrderApi": {"AdminBean"},
	}, h.Implementations)
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	h := Build(nil)
	assert.NotNil(t, h.Implementations)
	assert.Empty(t, h.Implementations)
}

func TestBuild_CycleTerminates(t *testing.T) {
	t.Parallel()

	files := []model.FileAnalysis{{Declarations: []model.Declaration{
		decl("Api", model.KindInterface, ""),
		decl("A", model.KindClass, "B", "Api"),
		decl("B", model.KindClass, "A"),
	}}}

	h := Build(files)
	assert.Equal(t, []string{"A", "B"}, h.Implementations["Api"])
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Shape":                     "Shape",
		"java.io.Serializable":      "Serializable",
		"Comparable<Shape>":         "Comparable",
		"java.util.Map<K, List<V>>": "Map",
		"Outer.Inner":               "Inner",
	}
	for in, want := range tests {
		assert.Equal(t, want, TypeName(in), in)
	}
}
