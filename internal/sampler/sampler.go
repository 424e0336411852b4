// Package sampler reads single files into size-bounded excerpts.
//
// Smart mode picks a rendering by byte size: files at or below the small
// threshold are returned whole, medium files as two overlapping halves,
// and large files as head, tail and evenly sized middle samples.
// Structure mode keeps only declaration-like lines and windowed mode
// returns a fixed-size slice of lines for continuation reads.
package sampler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/codelens/internal/config"
	"github.com/mvp-joe/codelens/internal/logging"
	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/result"
)

// DefaultLanguage tags files whose extension is not in the language table.
const DefaultLanguage = "text"

// Sampler renders excerpts. It is safe for concurrent use.
type Sampler struct {
	cfg       config.SamplingConfig
	languages map[string]string
	cache     *excerptCache
	cacheSize int
	logger    logrus.FieldLogger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLanguages sets the extension -> language table used to tag excerpts.
func WithLanguages(exts map[string]string) Option {
	return func(s *Sampler) { s.languages = exts }
}

// WithCache enables an in-memory excerpt cache holding up to capacity entries.
func WithCache(capacity int) Option {
	return func(s *Sampler) { s.cacheSize = capacity }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sampler) { s.logger = l }
}

// New creates a Sampler. Invalid thresholds are reported as a ConfigError.
func New(cfg config.SamplingConfig, opts ...Option) (*Sampler, error) {
	if err := config.ValidateSampling(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", result.ErrConfig, err)
	}

	s := &Sampler{
		cfg:       cfg,
		languages: config.Default().Paths.CodeExtensions(),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cacheSize > 0 {
		c, err := newExcerptCache(s.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

// Close releases the cache, if any.
func (s *Sampler) Close() {
	if s.cache != nil {
		s.cache.close()
	}
}

// Read renders path in the requested mode. It never panics or returns a
// bare error; failures come back as IOError or EncodingError results.
func (s *Sampler) Read(path string, mode Mode) result.Result[*model.FileExcerpt] {
	return s.read(path, path, mode)
}

// ReadRel reads root/rel and labels the excerpt with the slash-separated rel
// path, so content does not depend on where the project is checked out.
func (s *Sampler) ReadRel(root, rel string, mode Mode) result.Result[*model.FileExcerpt] {
	rel = filepath.ToSlash(rel)
	return s.read(filepath.Join(root, filepath.FromSlash(rel)), rel, mode)
}

func (s *Sampler) read(path, display string, mode Mode) result.Result[*model.FileExcerpt] {
	info, err := os.Stat(path)
	if err != nil {
		return result.Fail[*model.FileExcerpt](fmt.Errorf("%w: %v", result.ErrIO, err))
	}
	if info.IsDir() {
		return result.Fail[*model.FileExcerpt](fmt.Errorf("%w: %s is a directory", result.ErrIO, path))
	}

	var key cacheKey
	if s.cache != nil {
		key = newKey(path, display, mode, info.Size(), info.ModTime())
		if e, ok := s.cache.get(key); ok {
			s.logger.WithField("path", display).Debug("excerpt cache hit")
			return result.OK(e)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return result.Fail[*model.FileExcerpt](fmt.Errorf("%w: %v", result.ErrIO, err))
	}
	if !utf8.Valid(data) {
		return result.Fail[*model.FileExcerpt](fmt.Errorf("%w: %s is not valid UTF-8", result.ErrEncoding, display))
	}

	e := s.render(display, string(data), mode)
	if s.cache != nil {
		s.cache.set(key, e)
	}
	return result.OK(e)
}

func (s *Sampler) render(name, text string, mode Mode) *model.FileExcerpt {
	lines := splitLines(text)
	size := int64(len(text))

	var b body
	switch mode.Kind {
	case ModeFull:
		b = readFull(text, lines)
	case ModeStructure:
		b = readStructure(name, lines, s.cfg.StructureFallbackLines)
	case ModeWindowed:
		b = readWindow(name, lines, mode.Offset, s.cfg.WindowSize)
	default:
		switch {
		case size <= s.cfg.SmallFileSize:
			b = readFull(text, lines)
		case size <= s.cfg.MediumFileSize:
			b = readMedium(name, lines, s.cfg.MediumOverlapLines)
		default:
			b = readLarge(name, lines, s.cfg)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"path":     name,
		"mode":     mode.String(),
		"strategy": b.strategy,
		"lines":    len(lines),
	}).Debug("rendered excerpt")

	return &model.FileExcerpt{
		Path:       name,
		Language:   s.Language(name),
		Content:    b.content,
		TotalLines: len(lines),
		ByteSize:   size,
		Strategy:   b.strategy,
		Segments:   b.segments,
		Fallback:   b.fallback,
	}
}

// Language returns the language tag for path based on its extension.
func (s *Sampler) Language(path string) string {
	if lang, ok := s.languages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return DefaultLanguage
}
