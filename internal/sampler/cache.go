package sampler

import (
	"fmt"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/codelens/internal/model"
)

// cacheKey identifies one rendering of one file version. A change in size or
// modification time produces a new key, so stale entries are never served.
type cacheKey struct {
	path    string
	display string
	kind    ModeKind
	offset  int
	size    int64
	modTime int64
}

// excerptCache memoizes rendered excerpts. Values are copied on the way in
// and out so callers never share a Segments slice.
type excerptCache struct {
	c otter.Cache[cacheKey, model.FileExcerpt]
}

func newExcerptCache(capacity int) (*excerptCache, error) {
	c, err := otter.MustBuilder[cacheKey, model.FileExcerpt](capacity).
		Cost(func(_ cacheKey, e model.FileExcerpt) uint32 { return 1 }).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build excerpt cache: %w", err)
	}
	return &excerptCache{c: c}, nil
}

func newKey(path, display string, mode Mode, size int64, modTime time.Time) cacheKey {
	return cacheKey{
		path:    path,
		display: display,
		kind:    mode.Kind,
		offset:  mode.Offset,
		size:    size,
		modTime: modTime.UnixNano(),
	}
}

func (ec *excerptCache) get(k cacheKey) (*model.FileExcerpt, bool) {
	e, ok := ec.c.Get(k)
	if !ok {
		return nil, false
	}
	cp := e.WithPath(e.Path)
	return &cp, true
}

func (ec *excerptCache) set(k cacheKey, e *model.FileExcerpt) {
	ec.c.Set(k, e.WithPath(e.Path))
}

func (ec *excerptCache) size() int {
	return ec.c.Size()
}

func (ec *excerptCache) close() {
	ec.c.Close()
}
