// Package analyzer walks a project, dispatches every eligible file to the
// sampler or the declaration parser, and folds the per-file results into one
// ProjectAnalysis. A failing file is recorded in the run metadata and never
// aborts the run; only an unusable root does.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/codelens/internal/config"
	"github.com/mvp-joe/codelens/internal/hierarchy"
	"github.com/mvp-joe/codelens/internal/logging"
	"github.com/mvp-joe/codelens/internal/model"
	"github.com/mvp-joe/codelens/internal/parser"
	"github.com/mvp-joe/codelens/internal/result"
	"github.com/mvp-joe/codelens/internal/roles"
	"github.com/mvp-joe/codelens/internal/sampler"
	"github.com/mvp-joe/codelens/internal/strategy"
)

// JavaExtension is the only extension handed to the declaration parser.
const JavaExtension = ".java"

// Metadata notes for files left out of a parsed run.
const (
	SkippedTooLarge = "skipped: too large"
	SkippedOverCap  = "skipped: over deep-parse file cap"
)

// Analyzer runs project analyses. It is safe for concurrent use; all runs
// share one sampler (and its cache) and one parser grammar.
type Analyzer struct {
	cfg      *config.Config
	sampler  *sampler.Sampler
	parser   *parser.Parser
	sampled  *discovery
	parsed   *discovery
	progress ProgressReporter
	logger   logrus.FieldLogger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProgress configures progress reporting.
func WithProgress(p ProgressReporter) Option {
	return func(a *Analyzer) { a.progress = p }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New validates cfg and builds an Analyzer. The parser grammar is created
// here, once, and shared by every worker.
func New(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:      cfg,
		progress: NoOpProgressReporter{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}

	languages := cfg.Paths.CodeExtensions()
	sopts := []sampler.Option{
		sampler.WithLanguages(languages),
		sampler.WithLogger(a.logger),
	}
	if cfg.Cache.Enabled {
		sopts = append(sopts, sampler.WithCache(cfg.Cache.Capacity))
	}
	s, err := sampler.New(cfg.Sampling, sopts...)
	if err != nil {
		return nil, err
	}
	a.sampler = s
	a.parser = parser.New(parser.NewGrammar(), cfg.DeepParse, parser.WithLogger(a.logger))

	exts := make([]string, 0, len(languages))
	for ext := range languages {
		exts = append(exts, ext)
	}
	if a.sampled, err = newDiscovery(cfg.Paths, exts); err != nil {
		return nil, fmt.Errorf("%w: %w", result.ErrConfig, err)
	}
	if a.parsed, err = newDiscovery(cfg.Paths, []string{JavaExtension}); err != nil {
		return nil, fmt.Errorf("%w: %w", result.ErrConfig, err)
	}
	return a, nil
}

// Close releases the sampler cache.
func (a *Analyzer) Close() {
	a.sampler.Close()
}

// Sampler returns the sampler used for excerpts.
func (a *Analyzer) Sampler() *sampler.Sampler {
	return a.sampler
}

// IgnoreDir reports whether a directory name is pruned from traversal.
func (a *Analyzer) IgnoreDir(name string) bool {
	return a.sampled.ignoreDir(name)
}

// Eligible reports whether a file name would be analyzed under strategy s.
func (a *Analyzer) Eligible(name string, s model.Strategy) bool {
	if s == model.StrategyParsed {
		return a.parsed.eligible(name)
	}
	return a.sampled.eligible(name)
}

// Analyze runs one analysis of root. The strategy is fixed once for the
// whole run. If ctx is cancelled, no new files are started and the partial
// analysis is returned with Metadata.Incomplete set.
func (a *Analyzer) Analyze(ctx context.Context, root string, info model.ProjectInfo, deep bool) result.Result[*model.ProjectAnalysis] {
	start := time.Now()

	abs, err := filepath.Abs(root)
	if err != nil {
		return result.Fail[*model.ProjectAnalysis](fmt.Errorf("%w: %v", result.ErrIO, err))
	}
	st, err := os.Stat(abs)
	if err != nil {
		return result.Fail[*model.ProjectAnalysis](fmt.Errorf("%w: %v", result.ErrIO, err))
	}
	if !st.IsDir() {
		return result.Fail[*model.ProjectAnalysis](fmt.Errorf("%w: %s is not a directory", result.ErrIO, abs))
	}

	strat := strategy.Select(info, deep)
	log := a.logger.WithFields(logrus.Fields{"root": abs, "strategy": strat})

	disc := a.sampled
	if strat == model.StrategyParsed {
		disc = a.parsed
	}
	files, unreadable, err := disc.discover(abs)
	if err != nil {
		return result.Fail[*model.ProjectAnalysis](fmt.Errorf("%w: %v", result.ErrIO, err))
	}

	acc := newAccumulator(a.progress)
	acc.meta.RunID = uuid.NewString()
	acc.meta.Strategy = strat
	acc.meta.EligibleFiles = len(files)
	for _, u := range unreadable {
		acc.meta.Errors[u.rel] = fmt.Sprintf("%s: %v", result.KindIO, u.err)
	}

	if strat == model.StrategyParsed && len(files) > a.cfg.DeepParse.MaxFiles {
		acc.meta.FilesOverCap = len(files) - a.cfg.DeepParse.MaxFiles
		for _, rel := range files[a.cfg.DeepParse.MaxFiles:] {
			acc.meta.Skipped[rel] = SkippedOverCap
		}
		log.WithField("over_cap", acc.meta.FilesOverCap).Warn("deep parse file cap reached")
		files = files[:a.cfg.DeepParse.MaxFiles]
	}

	a.progress.OnDiscoveryComplete(strat, len(files))
	a.dispatch(ctx, abs, strat, files, acc)

	analysis := acc.assemble(strat)
	analysis.ProjectPath = abs
	analysis.HasReadme, analysis.HasClaudeDoc = rootDocs(abs)

	log.WithFields(logrus.Fields{
		"run_id":     analysis.Metadata.RunID,
		"files":      analysis.TotalFiles,
		"lines":      analysis.TotalLines,
		"errors":     len(analysis.Metadata.Errors),
		"skipped":    len(analysis.Metadata.Skipped),
		"incomplete": analysis.Metadata.Incomplete,
		"duration":   time.Since(start),
	}).Info("analysis complete")

	a.progress.OnComplete(analysis)
	return result.OK(analysis)
}

// dispatch runs files through a bounded pool. Cancellation is checked before
// each file is launched and again when a worker picks it up.
func (a *Analyzer) dispatch(ctx context.Context, root string, strat model.Strategy, files []string, acc *accumulator) {
	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)

	for _, rel := range files {
		if ctx.Err() != nil {
			acc.markIncomplete()
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				acc.markIncomplete()
				return nil
			}
			if strat == model.StrategyParsed {
				a.parseFile(ctx, root, rel, acc)
			} else {
				a.sampleFile(root, rel, acc)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Analyzer) sampleFile(root, rel string, acc *accumulator) {
	res := a.sampler.ReadRel(root, rel, sampler.Smart())
	if !res.Success {
		a.logFailure(rel, res.Error, res.Message)
		acc.fail(rel, res.Error, res.Message)
		return
	}
	acc.addExcerpt(*res.Data)
}

func (a *Analyzer) parseFile(ctx context.Context, root, rel string, acc *accumulator) {
	res := a.parser.Parse(ctx, filepath.Join(root, filepath.FromSlash(rel)))
	switch {
	case res.Success:
		acc.addParsed(res.Data.WithPath(rel))
	case res.Error == result.KindLimitExceeded:
		a.logger.WithField("path", rel).Debug(SkippedTooLarge)
		acc.skip(rel, SkippedTooLarge)
	case ctx.Err() != nil:
		// Cancelled mid-parse: not processed, not failed.
		acc.markIncomplete()
	default:
		a.logFailure(rel, res.Error, res.Message)
		acc.fail(rel, res.Error, res.Message)
	}
}

func (a *Analyzer) logFailure(rel string, kind result.Kind, msg string) {
	a.logger.WithFields(logrus.Fields{
		"path": rel,
		"kind": kind,
	}).Warn(msg)
}

// accumulator is the single merge point for worker results.
type accumulator struct {
	mu         sync.Mutex
	excerpts   []model.FileExcerpt
	parsed     []model.FileAnalysis
	totalLines int
	meta       model.Metadata
	progress   ProgressReporter
}

func newAccumulator(p ProgressReporter) *accumulator {
	return &accumulator{
		meta: model.Metadata{
			Errors:  map[string]string{},
			Skipped: map[string]string{},
		},
		progress: p,
	}
}

func (acc *accumulator) addExcerpt(e model.FileExcerpt) {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.excerpts = append(acc.excerpts, e)
	acc.totalLines += e.TotalLines
	acc.progress.OnFileProcessed(e.Path)
}

func (acc *accumulator) addParsed(f model.FileAnalysis) {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.parsed = append(acc.parsed, f)
	acc.totalLines += f.TotalLines
	if f.HasSyntaxErrors {
		acc.meta.SyntaxErrorFiles++
	}
	acc.progress.OnFileProcessed(f.Path)
}

func (acc *accumulator) fail(rel string, kind result.Kind, msg string) {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.meta.Errors[rel] = fmt.Sprintf("%s: %s", kind, msg)
	acc.progress.OnFileProcessed(rel)
}

func (acc *accumulator) skip(rel, reason string) {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.meta.Skipped[rel] = reason
	acc.progress.OnFileProcessed(rel)
}

func (acc *accumulator) markIncomplete() {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.meta.Incomplete = true
}

// assemble orders the results by path and derives the parsed-mode summaries.
// Workers must have finished.
func (acc *accumulator) assemble(strat model.Strategy) *model.ProjectAnalysis {
	pa := &model.ProjectAnalysis{
		Strategy:   strat,
		TotalLines: acc.totalLines,
		Metadata:   acc.meta,
	}

	if strat == model.StrategyParsed {
		pa.Parsed = acc.parsed
		if pa.Parsed == nil {
			pa.Parsed = []model.FileAnalysis{}
		}
		sort.Slice(pa.Parsed, func(i, j int) bool { return pa.Parsed[i].Path < pa.Parsed[j].Path })
		pa.TotalFiles = len(pa.Parsed)
		pa.RoleSummary = roles.Summarize(pa.Parsed)
		pa.Hierarchy = hierarchy.Build(pa.Parsed)
		return pa
	}

	pa.Excerpts = acc.excerpts
	if pa.Excerpts == nil {
		pa.Excerpts = []model.FileExcerpt{}
	}
	sort.Slice(pa.Excerpts, func(i, j int) bool { return pa.Excerpts[i].Path < pa.Excerpts[j].Path })
	pa.TotalFiles = len(pa.Excerpts)
	return pa
}

// rootDocs reports whether root holds a README and a CLAUDE instructions
// file, matching the name without extension case-insensitively.
func rootDocs(root string) (readme, claude bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return false, false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		switch stem {
		case "readme":
			readme = true
		case "claude":
			claude = true
		}
	}
	return readme, claude
}
