package parser

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// Grammar is the Java language handle. Create one per process with
// NewGrammar and share it; it is read-only after construction and safe for
// concurrent use. Parsers themselves are not shared.
type Grammar struct {
	once sync.Once
	lang *sitter.Language
}

// NewGrammar returns a grammar handle. The language is loaded on first use.
func NewGrammar() *Grammar {
	return &Grammar{}
}

func (g *Grammar) language() *sitter.Language {
	g.once.Do(func() {
		g.lang = sitter.NewLanguage(java.Language())
	})
	return g.lang
}

// newParser returns a fresh tree-sitter parser bound to the grammar. The
// caller must Close it.
func (g *Grammar) newParser() (*sitter.Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(g.language()); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set java language: %w", err)
	}
	return p, nil
}
