package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/roles"
)

// extractor turns an arena into a FileAnalysis. Declarations are appended in
// source pre-order, so a nested type directly follows the types enclosing it.
type extractor struct {
	t   *Tree
	out *model.FileAnalysis
}

func extract(t *Tree) *model.FileAnalysis {
	x := &extractor{
		t: t,
		out: &model.FileAnalysis{
			Imports:      []string{},
			Declarations: []model.Declaration{},
		},
	}
	x.visitTop(0)
	return x.out
}

func (x *extractor) children(i int) []int {
	return x.t.Nodes[i].Children
}

func (x *extractor) kind(i int) Kind {
	return x.t.Nodes[i].Kind
}

func (x *extractor) fieldText(i int, name string) string {
	if c, ok := x.t.Field(i, name); ok {
		return x.t.Text(c)
	}
	return ""
}

func (x *extractor) visitTop(i int) {
	for _, c := range x.children(i) {
		switch x.kind(c) {
		case KindPackage:
			if x.out.Package == "" {
				if n, ok := x.t.ChildOfKind(c, KindName); ok {
					x.out.Package = x.t.Text(n)
				}
			}
		case KindImport:
			x.out.Imports = append(x.out.Imports, importPath(x.t.Text(c)))
		case KindClass, KindInterface, KindEnum, KindRecord, KindAnnotationType:
			x.declaration(c, "")
		case KindError:
			// Error recovery can wrap otherwise valid top-level nodes.
			x.visitTop(c)
		}
	}
}

// declaration appends the declaration at node i and its nested types, and
// returns its index in out.Declarations, or -1 if it has no name.
func (x *extractor) declaration(i int, parent string) int {
	name := x.fieldText(i, "name")
	if name == "" {
		return -1
	}

	node := &x.t.Nodes[i]
	anns, mods := x.modifiers(i)
	d := model.Declaration{
		Name:        name,
		Kind:        declarationKind(node.Kind),
		Parent:      parent,
		StartLine:   node.StartLine,
		EndLine:     node.EndLine,
		Annotations: annotationNames(anns),
		Modifiers:   mods,
		Interfaces:  x.interfaces(i),
		Methods:     []model.Method{},
		Fields:      []model.Field{},
	}
	if sc, ok := x.t.Field(i, "superclass"); ok {
		d.Supertype = x.firstTypeText(sc)
	}
	if node.Kind == KindRecord {
		if params, ok := x.t.Field(i, "parameters"); ok {
			d.Fields = append(d.Fields, x.recordComponents(params)...)
		}
	}
	d.IsFrameworkComponent = roles.IsFrameworkComponent(d.Annotations)

	idx := len(x.out.Declarations)
	x.out.Declarations = append(x.out.Declarations, d)

	if body, ok := x.t.Field(i, "body"); ok {
		x.body(body, idx, roles.BasePath(anns))
	}
	return idx
}

func (x *extractor) body(b, idx int, base string) {
	owner := x.out.Declarations[idx].Name
	for _, c := range x.children(b) {
		switch x.kind(c) {
		case KindMethod, KindConstructor:
			m := x.method(c, owner, base)
			x.out.Declarations[idx].Methods = append(x.out.Declarations[idx].Methods, m)
		case KindField:
			x.out.Declarations[idx].Fields = append(x.out.Declarations[idx].Fields, x.fields(c)...)
		case KindClass, KindInterface, KindEnum, KindRecord, KindAnnotationType:
			if nested := x.declaration(c, owner); nested >= 0 {
				x.out.Declarations[idx].Methods = append(x.out.Declarations[idx].Methods, x.out.Declarations[nested].Methods...)
			}
		case KindBody, KindError:
			x.body(c, idx, base)
		}
	}
}

func (x *extractor) method(i int, owner, base string) model.Method {
	node := &x.t.Nodes[i]
	anns, mods := x.modifiers(i)
	m := model.Method{
		Name:          x.fieldText(i, "name"),
		Owner:         owner,
		Parameters:    []model.Parameter{},
		Annotations:   annotationNames(anns),
		Modifiers:     mods,
		StartLine:     node.StartLine,
		IsAbstract:    contains(mods, "abstract"),
		IsConstructor: node.Kind == KindConstructor,
	}
	if !m.IsConstructor {
		m.ReturnType = x.fieldText(i, "type") + x.fieldText(i, "dimensions")
	}
	if params, ok := x.t.Field(i, "parameters"); ok {
		m.Parameters = x.parameters(params)
	}
	m.Route = roles.RouteFor(anns, base, m.StartLine)
	return m
}

func (x *extractor) parameters(p int) []model.Parameter {
	out := []model.Parameter{}
	for _, c := range x.children(p) {
		switch x.kind(c) {
		case KindFormalParameter:
			out = append(out, model.Parameter{
				Type: x.fieldText(c, "type") + x.fieldText(c, "dimensions"),
				Name: x.fieldText(c, "name"),
			})
		case KindSpreadParameter:
			param := model.Parameter{}
			for _, s := range x.children(c) {
				switch x.kind(s) {
				case KindModifiers, KindComment:
				case KindVariableDeclarator:
					param.Name = x.fieldText(s, "name")
				default:
					if param.Type == "" {
						param.Type = x.t.Text(s) + "..."
					}
				}
			}
			out = append(out, param)
		}
	}
	return out
}

func (x *extractor) fields(i int) []model.Field {
	anns, mods := x.modifiers(i)
	names := annotationNames(anns)
	typ := x.fieldText(i, "type")
	line := x.t.Nodes[i].StartLine

	var out []model.Field
	for _, d := range x.t.Fields(i, "declarator") {
		out = append(out, model.Field{
			Name:        x.fieldText(d, "name"),
			Type:        typ + x.fieldText(d, "dimensions"),
			Annotations: names,
			Modifiers:   mods,
			StartLine:   line,
			IsInjected:  roles.IsInjection(names),
		})
	}
	return out
}

func (x *extractor) recordComponents(p int) []model.Field {
	var out []model.Field
	for _, c := range x.children(p) {
		if x.kind(c) != KindFormalParameter {
			continue
		}
		anns, mods := x.modifiers(c)
		names := annotationNames(anns)
		out = append(out, model.Field{
			Name:        x.fieldText(c, "name"),
			Type:        x.fieldText(c, "type"),
			Annotations: names,
			Modifiers:   mods,
			StartLine:   x.t.Nodes[c].StartLine,
			IsInjected:  roles.IsInjection(names),
		})
	}
	return out
}

// interfaces returns the implemented (class, enum, record) or extended
// (interface) types in source order.
func (x *extractor) interfaces(i int) []string {
	out := []string{}
	clause, ok := x.t.ChildOfKind(i, KindSuperInterfaces)
	if !ok {
		return out
	}
	list, ok := x.t.ChildOfKind(clause, KindTypeList)
	if !ok {
		return out
	}
	for _, c := range x.children(list) {
		if x.kind(c) != KindComment {
			out = append(out, x.t.Text(c))
		}
	}
	return out
}

func (x *extractor) firstTypeText(i int) string {
	for _, c := range x.children(i) {
		if x.kind(c) != KindComment {
			return x.t.Text(c)
		}
	}
	return ""
}

// modifiers returns the annotations in source order and the sorted,
// de-duplicated modifier keywords of node i.
func (x *extractor) modifiers(i int) ([]roles.Annotation, []string) {
	mods := []string{}
	mi, ok := x.t.ChildOfKind(i, KindModifiers)
	if !ok {
		return nil, mods
	}

	var anns []roles.Annotation
	for _, c := range x.children(mi) {
		switch x.kind(c) {
		case KindAnnotation:
			anns = append(anns, x.annotation(c))
		case KindModifier:
			mods = append(mods, x.t.Nodes[c].Type)
		}
	}
	return anns, sortedUnique(mods)
}

func (x *extractor) annotation(i int) roles.Annotation {
	a := roles.Annotation{
		Name: simpleName(x.fieldText(i, "name")),
		Args: map[string][]string{},
	}
	args, ok := x.t.Field(i, "arguments")
	if !ok {
		return a
	}
	for _, c := range x.children(args) {
		switch x.kind(c) {
		case KindComment:
		case KindElementValuePair:
			key := x.fieldText(c, "key")
			if v, ok := x.t.Field(c, "value"); ok {
				a.Args[key] = append(a.Args[key], x.values(v)...)
			}
		default:
			a.Args["value"] = append(a.Args["value"], x.values(c)...)
		}
	}
	return a
}

func (x *extractor) values(i int) []string {
	switch x.kind(i) {
	case KindStringLiteral:
		return []string{unquote(x.t.Text(i))}
	case KindArrayInitializer:
		var out []string
		for _, c := range x.children(i) {
			out = append(out, x.values(c)...)
		}
		return out
	case KindComment:
		return nil
	default:
		return []string{strings.TrimSpace(x.t.Text(i))}
	}
}

func declarationKind(k Kind) model.DeclarationKind {
	switch k {
	case KindInterface, KindAnnotationType:
		return model.KindInterface
	case KindEnum:
		return model.KindEnum
	default:
		return model.KindClass
	}
}

// importPath strips the keyword and semicolon from an import statement and
// collapses whitespace: "import static a.B.*;" -> "static a.B.*".
func importPath(stmt string) string {
	fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
	if len(fields) > 0 && fields[0] == "import" {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// simpleName reduces "@org.example.Service" to "Service".
func simpleName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func annotationNames(anns []roles.Annotation) []string {
	names := make([]string, 0, len(anns))
	for _, a := range anns {
		names = append(names, a.Name)
	}
	return sortedUnique(names)
}

func sortedUnique(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for _, s := range in {
		if len(out) == 0 || s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func unquote(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.Trim(lit, `"`)
}
