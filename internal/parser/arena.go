package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Kind is the closed set of syntax node kinds the extractor dispatches on.
// Everything else is KindOther and is still kept for its text and fields.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindPackage
	KindImport
	KindClass
	KindInterface
	KindEnum
	KindRecord
	KindAnnotationType
	KindBody
	KindMethod
	KindConstructor
	KindField
	KindModifiers
	KindModifier
	KindAnnotation
	KindAnnotationArgs
	KindElementValuePair
	KindArrayInitializer
	KindStringLiteral
	KindName
	KindSuperclass
	KindSuperInterfaces
	KindTypeList
	KindFormalParameters
	KindFormalParameter
	KindSpreadParameter
	KindVariableDeclarator
	KindComment
	KindError
)

var kindByType = map[string]Kind{
	"program":                         KindProgram,
	"package_declaration":             KindPackage,
	"import_declaration":              KindImport,
	"class_declaration":               KindClass,
	"interface_declaration":           KindInterface,
	"enum_declaration":                KindEnum,
	"record_declaration":              KindRecord,
	"annotation_type_declaration":     KindAnnotationType,
	"class_body":                      KindBody,
	"interface_body":                  KindBody,
	"enum_body":                       KindBody,
	"enum_body_declarations":          KindBody,
	"annotation_type_body":            KindBody,
	"method_declaration":              KindMethod,
	"constructor_declaration":         KindConstructor,
	"compact_constructor_declaration": KindConstructor,
	"field_declaration":               KindField,
	"constant_declaration":            KindField,
	"modifiers":                       KindModifiers,
	"annotation":                      KindAnnotation,
	"marker_annotation":               KindAnnotation,
	"annotation_argument_list":        KindAnnotationArgs,
	"element_value_pair":              KindElementValuePair,
	"element_value_array_initializer": KindArrayInitializer,
	"string_literal":                  KindStringLiteral,
	"identifier":                      KindName,
	"scoped_identifier":               KindName,
	"superclass":                      KindSuperclass,
	"super_interfaces":                KindSuperInterfaces,
	"extends_interfaces":              KindSuperInterfaces,
	"type_list":                       KindTypeList,
	"formal_parameters":               KindFormalParameters,
	"formal_parameter":                KindFormalParameter,
	"spread_parameter":                KindSpreadParameter,
	"variable_declarator":             KindVariableDeclarator,
	"line_comment":                    KindComment,
	"block_comment":                   KindComment,
	"ERROR":                           KindError,
}

// modifierKeywords are the anonymous tokens kept under a modifiers node.
var modifierKeywords = map[string]bool{
	"public":   true, "protected": true, "private": true,
	"abstract": true, "static": true, "final": true, "strictfp": true,
	"default":  true, "synchronized": true, "native": true, "transient": true,
	"volatile": true, "sealed": true, "non-sealed": true,
}

func kindOf(n *sitter.Node, parent Kind) (Kind, bool) {
	typ := n.Kind()
	if !n.IsNamed() {
		if parent == KindModifiers && modifierKeywords[typ] {
			return KindModifier, true
		}
		return KindOther, false
	}
	if k, ok := kindByType[typ]; ok {
		return k, true
	}
	return KindOther, true
}

// Node is one syntax node in the arena. Parent and Children are indices
// into Tree.Nodes; the root has Parent -1.
type Node struct {
	Kind      Kind
	Type      string
	Field     string
	StartByte uint
	EndByte   uint
	StartLine int
	EndLine   int
	Parent    int
	Children  []int
}

// Tree is an index-addressed copy of a tree-sitter syntax tree holding
// named nodes and modifier keywords. It owns no cgo resources.
type Tree struct {
	Nodes  []Node
	Source []byte
}

// buildTree copies the syntax tree under root into an arena.
func buildTree(root *sitter.Node, source []byte) *Tree {
	t := &Tree{Source: source}
	t.Nodes = append(t.Nodes, newNode(root, KindProgram, "", -1))

	cursor := root.Walk()
	defer cursor.Close()
	t.collect(cursor, 0)
	return t
}

// collect appends the children of the cursor's current node under parent,
// recursing depth-first.
func (t *Tree) collect(cursor *sitter.TreeCursor, parent int) {
	if !cursor.GotoFirstChild() {
		return
	}
	for {
		n := cursor.Node()
		if k, keep := kindOf(n, t.Nodes[parent].Kind); keep {
			idx := len(t.Nodes)
			t.Nodes = append(t.Nodes, newNode(n, k, cursor.FieldName(), parent))
			t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
			t.collect(cursor, idx)
		}
		if !cursor.GotoNextSibling() {
			break
		}
	}
	cursor.GotoParent()
}

func newNode(n *sitter.Node, k Kind, field string, parent int) Node {
	return Node{
		Kind:      k,
		Type:      n.Kind(),
		Field:     field,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartLine: int(n.StartPosition().Row) + 1,
		EndLine:   int(n.EndPosition().Row) + 1,
		Parent:    parent,
	}
}

// Text returns the source text of node i.
func (t *Tree) Text(i int) string {
	n := &t.Nodes[i]
	return string(t.Source[n.StartByte:n.EndByte])
}

// Field returns the first child of i attached under the named field.
func (t *Tree) Field(i int, name string) (int, bool) {
	for _, c := range t.Nodes[i].Children {
		if t.Nodes[c].Field == name {
			return c, true
		}
	}
	return -1, false
}

// Fields returns every child of i attached under the named field.
func (t *Tree) Fields(i int, name string) []int {
	var out []int
	for _, c := range t.Nodes[i].Children {
		if t.Nodes[c].Field == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first child of i with kind k.
func (t *Tree) ChildOfKind(i int, k Kind) (int, bool) {
	for _, c := range t.Nodes[i].Children {
		if t.Nodes[c].Kind == k {
			return c, true
		}
	}
	return -1, false
}
