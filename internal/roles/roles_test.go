package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codelens/internal/model"
)

// Test Plan for RoleClassifier:
// - Classify applies controller > service > repository > component priority
// - EJB session and message-driven annotations map onto service and component
// - Entity detection is independent of role classification
// - RouteFor resolves Spring mapping verbs, RequestMapping methods, and JAX-RS verbs
// - Type-level prefixes join onto method paths
// - Summarize never duplicates a controller into services
// - Two GET methods in different declarations give two GET route entries
// - Nested declarations' methods are only counted under their owner

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		annotations []string
		want        Role
		ok          bool
	}{
		{"rest controller", []string{"RestController"}, RoleController, true},
		{"controller beats service", []string{"Service", "Controller"}, RoleController, true},
		{"service beats repository", []string{"Repository", "Service"}, RoleService, true},
		{"repository beats component", []string{"Component", "Repository"}, RoleRepository, true},
		{"stateless bean", []string{"Stateless"}, RoleService, true},
		{"singleton bean", []string{"Singleton", "Startup"}, RoleService, true},
		{"message driven", []string{"MessageDriven"}, RoleComponent, true},
		{"configuration", []string{"Configuration"}, RoleComponent, true},
		{"plain", []string{"Deprecated"}, "", false},
		{"none", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Classify(tt.annotations)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsFrameworkComponent(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFrameworkComponent([]string{"Service"}))
	assert.True(t, IsFrameworkComponent([]string{"Entity", "Repository"}))
	assert.False(t, IsFrameworkComponent([]string{"Entity"}))
	assert.False(t, IsFrameworkComponent([]string{"Embeddable", "MappedSuperclass"}))
	assert.False(t, IsFrameworkComponent([]string{"Override", "Deprecated"}))
	assert.False(t, IsFrameworkComponent(nil))
}

func TestIsInjection(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Autowired", "Inject", "Resource", "EJB", "PersistenceContext", "Value"} {
		assert.True(t, IsInjection([]string{name}), name)
	}
	assert.False(t, IsInjection([]string{"Column"}))
}

func TestRouteFor(t *testing.T) {
	t.Parallel()

	args := func(kv ...string) map[string][]string {
		m := map[string][]string{}
		for i := 0; i+1 < len(kv); i += 2 {
			m[kv[i]] = append(m[kv[i]], kv[i+1])
		}
		return m
	}

	tests := []struct {
		name string
		anns []Annotation
		base string
		want *model.Route
	}{
		{
			name: "get mapping",
			anns: []Annotation{{Name: "GetMapping", Args: args("value", "/users")}},
			want: &model.Route{Verb: "GET", Path: "/users", StartLine: 7},
		},
		{
			name: "post mapping path attribute",
			anns: []Annotation{{Name: "PostMapping", Args: args("path", "/users")}},
			want: &model.Route{Verb: "POST", Path: "/users", StartLine: 7},
		},
		{
			name: "request mapping with method",
			anns: []Annotation{{Name: "RequestMapping", Args: args("value", "/x", "method", "RequestMethod.DELETE")}},
			want: &model.Route{Verb: "DELETE", Path: "/x", StartLine: 7},
		},
		{
			name: "request mapping without method",
			anns: []Annotation{{Name: "RequestMapping", Args: args("value", "/x")}},
			want: &model.Route{Verb: VerbAny, Path: "/x", StartLine: 7},
		},
		{
			name: "jaxrs verb with path",
			anns: []Annotation{{Name: "Path", Args: args("value", "{id}")}, {Name: "GET"}},
			base: "/api/items",
			want: &model.Route{Verb: "GET", Path: "/api/items/{id}", StartLine: 7},
		},
		{
			name: "mapping without path uses base",
			anns: []Annotation{{Name: "PutMapping"}},
			base: "/orders/",
			want: &model.Route{Verb: "PUT", Path: "/orders/", StartLine: 7},
		},
		{
			name: "not routed",
			anns: []Annotation{{Name: "Override"}, {Name: "Transactional"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RouteFor(tt.anns, tt.base, 7))
		})
	}
}

func TestIsRouting(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"GetMapping", "PostMapping", "RequestMapping", "GET", "DELETE"} {
		assert.True(t, IsRouting(name), name)
	}
	for _, name := range []string{"Path", "Service", "Get", ""} {
		assert.False(t, IsRouting(name), name)
	}
}

func TestBasePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/api", BasePath([]Annotation{{Name: "RestController"}, {Name: "RequestMapping", Args: map[string][]string{"value": {"/api"}}}}))
	assert.Equal(t, "/res", BasePath([]Annotation{{Name: "Path", Args: map[string][]string{"value": {"/res"}}}}))
	assert.Empty(t, BasePath([]Annotation{{Name: "Service"}}))
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/a/b", JoinPath("/a", "/b"))
	assert.Equal(t, "/a/b", JoinPath("/a/", "b"))
	assert.Equal(t, "/b", JoinPath("", "/b"))
	assert.Equal(t, "/a", JoinPath("/a", ""))
}

func TestSummarize_ControllerNotDuplicatedIntoServices(t *testing.T) {
	t.Parallel()

	files := []model.FileAnalysis{{
		Path:    "src/UserController.java",
		Package: "com.example",
		Declarations: []model.Declaration{{
			Name:        "UserController",
			Kind:        model.KindClass,
			StartLine:   5,
			Annotations: []string{"Controller", "Service"},
			Methods:     []model.Method{{Name: "list", Owner: "UserController"}},
		}},
	}}

	s := Summarize(files)
	require.Len(t, s.Controllers, 1)
	assert.Empty(t, s.Services)
	assert.Equal(t, model.RoleEntry{
		Name:        "UserController",
		Package:     "com.example",
		File:        "src/UserController.java",
		StartLine:   5,
		MethodNames: []string{"list"},
	}, s.Controllers[0])
}

func TestSummarize_RoutesAcrossDeclarations(t *testing.T) {
	t.Parallel()

	files := []model.FileAnalysis{
		{
			Path: "A.java",
			Declarations: []model.Declaration{{
				Name:        "A",
				Annotations: []string{"RestController"},
				Methods: []model.Method{
					{Name: "one", Owner: "A", Route: &model.Route{Verb: "GET", Path: "/a", StartLine: 3}},
					{Name: "save", Owner: "A", Route: &model.Route{Verb: "POST", Path: "/a", StartLine: 8}},
				},
			}},
		},
		{
			Path: "B.java",
			Declarations: []model.Declaration{{
				Name:        "B",
				Annotations: []string{"RestController"},
				Methods: []model.Method{
					{Name: "two", Owner: "B", Route: &model.Route{Verb: "GET", Path: "/b", StartLine: 4}},
				},
			}},
		},
	}

	s := Summarize(files)
	assert.Equal(t, []model.RouteEntry{
		{DeclarationName: "A", MethodName: "one", Path: "/a", StartLine: 3},
		{DeclarationName: "B", MethodName: "two", Path: "/b", StartLine: 4},
	}, s.Routes["GET"])
	assert.Len(t, s.Routes["POST"], 1)
	assert.NotContains(t, s.Routes, "DELETE")
}

func TestSummarize_NestedMethodsCountedOnce(t *testing.T) {
	t.Parallel()

	inner := model.Method{Name: "ping", Owner: "Inner", Route: &model.Route{Verb: "GET", StartLine: 9}}
	files := []model.FileAnalysis{{
		Path: "Outer.java",
		Declarations: []model.Declaration{
			{
				Name:        "Outer",
				Annotations: []string{"RestController"},
				Methods:     []model.Method{{Name: "root", Owner: "Outer"}, inner},
			},
			{
				Name:        "Inner",
				Parent:      "Outer",
				Annotations: []string{"RestController"},
				Methods:     []model.Method{inner},
			},
		},
	}}

	s := Summarize(files)
	require.Len(t, s.Routes["GET"], 1)
	assert.Equal(t, "Inner", s.Routes["GET"][0].DeclarationName)
	require.Len(t, s.Controllers, 2)
	assert.Equal(t, []string{"root"}, s.Controllers[0].MethodNames)
}

func TestSummarize_EntityIsAdditive(t *testing.T) {
	t.Parallel()

	files := []model.FileAnalysis{{
		Path: "Odd.java",
		Declarations: []model.Declaration{
			{Name: "Odd", Annotations: []string{"Entity", "Component"}},
			{Name: "User", Annotations: []string{"Entity", "Table"}},
		},
	}}

	s := Summarize(files)
	assert.Len(t, s.Components, 1)
	require.Len(t, s.Entities, 2)
	assert.Equal(t, "Odd", s.Entities[0].Name)
	assert.Equal(t, "User", s.Entities[1].Name)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.NotNil(t, s.Routes)
	assert.Empty(t, s.Controllers)
}
