// Package parser extracts packages, imports, type declarations and their
// members from Java source using tree-sitter.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codelens/internal/config"
	"github.com/mvp-joe/codelens/internal/logging"
	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/result"
)

// Parser parses one file at a time. It is safe for concurrent use; each
// call builds its own tree-sitter parser from the shared Grammar.
type Parser struct {
	grammar     *Grammar
	maxFileSize int64
	logger      logrus.FieldLogger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Parser) { p.logger = l }
}

// New creates a Parser over g bounded by cfg.MaxFileSize.
func New(g *Grammar, cfg config.DeepParseConfig, opts ...Option) *Parser {
	p := &Parser{
		grammar:     g,
		maxFileSize: cfg.MaxFileSize,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads and parses path. Files over the size limit fail with
// LimitExceeded; that is a skip, not an error, for callers aggregating a
// project. Syntax errors still yield a best-effort analysis.
func (p *Parser) Parse(ctx context.Context, path string) result.Result[*model.FileAnalysis] {
	info, err := os.Stat(path)
	if err != nil {
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %v", result.ErrIO, err))
	}
	if info.IsDir() {
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %s is a directory", result.ErrIO, path))
	}
	if info.Size() > p.maxFileSize {
		return p.tooLarge(path, info.Size())
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %v", result.ErrIO, err))
	}
	return p.ParseSource(ctx, path, src)
}

// ParseSource parses src, reporting it under path.
func (p *Parser) ParseSource(ctx context.Context, path string, src []byte) result.Result[*model.FileAnalysis] {
	if err := ctx.Err(); err != nil {
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %s: %v", result.ErrParse, path, err))
	}
	if int64(len(src)) > p.maxFileSize {
		return p.tooLarge(path, int64(len(src)))
	}
	if !utf8.Valid(src) {
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %s is not valid UTF-8", result.ErrEncoding, path))
	}

	if len(src) == 0 {
		return result.OK(&model.FileAnalysis{
			Path:         path,
			Imports:      []string{},
			Declarations: []model.Declaration{},
		})
	}

	sp, err := p.grammar.newParser()
	if err != nil {
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %v", result.ErrParse, err))
	}
	defer sp.Close()

	tree := sp.ParseWithOptions(readSource(src), nil, &sitter.ParseOptions{
		ProgressCallback: func(sitter.ParseState) bool { return ctx.Err() != nil },
	})
	if tree == nil {
		if err := ctx.Err(); err != nil {
			return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %s: %v", result.ErrParse, path, err))
		}
		return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: failed to build syntax tree for %s", result.ErrParse, path))
	}
	defer tree.Close()

	root := tree.RootNode()
	fa := extract(buildTree(root, src))
	fa.Path = path
	fa.TotalLines = countLines(src)
	fa.HasSyntaxErrors = root.HasError()

	log := p.logger.WithFields(logrus.Fields{
		"path":         path,
		"declarations": len(fa.Declarations),
	})
	if fa.HasSyntaxErrors {
		log.Warn("parsed with syntax errors")
	} else {
		log.Debug("parsed file")
	}
	return result.OK(fa)
}

// readSource feeds src to tree-sitter from the requested byte offset.
func readSource(src []byte) func(int, sitter.Point) []byte {
	return func(offset int, _ sitter.Point) []byte {
		if offset < len(src) {
			return src[offset:]
		}
		return nil
	}
}

func (p *Parser) tooLarge(path string, size int64) result.Result[*model.FileAnalysis] {
	return result.Fail[*model.FileAnalysis](fmt.Errorf("%w: %s is %d bytes (limit %d)",
		result.ErrLimitExceeded, path, size, p.maxFileSize))
}

// countLines counts newline-terminated lines plus a final unterminated one.
func countLines(src []byte) int {
	n := bytes.Count(src, []byte{'\n'})
	if len(src) > 0 && src[len(src)-1] != '\n' {
		n++
	}
	return n
}
