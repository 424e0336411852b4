package analyzer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/codelens/internal/config"
)

// compiledPattern holds an ignored-directory pattern and its compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// discovery enumerates eligible files under a project root.
type discovery struct {
	ignoreDirs  []compiledPattern
	ignoreExts  []string
	includeExts map[string]bool
}

func newDiscovery(paths config.PathsConfig, include []string) (*discovery, error) {
	d := &discovery{includeExts: make(map[string]bool, len(include))}

	for _, pattern := range paths.IgnoredDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignored directory pattern %q: %w", pattern, err)
		}
		d.ignoreDirs = append(d.ignoreDirs, compiledPattern{pattern: pattern, glob: g})
	}
	for _, ext := range paths.IgnoredExtensions {
		d.ignoreExts = append(d.ignoreExts, strings.ToLower(ext))
	}
	for _, ext := range include {
		d.includeExts[strings.ToLower(ext)] = true
	}
	return d, nil
}

// walkError is a directory that could not be listed during discovery.
type walkError struct {
	rel string
	err error
}

// discover returns the slash-separated paths, relative to root, of every
// eligible file in lexical order, plus any subdirectories it could not read.
func (d *discovery) discover(root string) ([]string, []walkError, error) {
	files := []string{}
	var unreadable []walkError

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			if path == root {
				return err
			}
			unreadable = append(unreadable, walkError{rel: rel, err: err})
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && d.ignoreDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.eligible(entry.Name()) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Strings(files)
	return files, unreadable, nil
}

// ignoreDir reports whether a directory name is pruned. The tool's own
// directory is always pruned.
func (d *discovery) ignoreDir(name string) bool {
	if name == config.DirName {
		return true
	}
	for _, cp := range d.ignoreDirs {
		if cp.glob.Match(name) {
			return true
		}
	}
	return false
}

// eligible reports whether a file name passes the extension filters.
// Ignored extensions match as suffixes so ".tar.gz" works.
func (d *discovery) eligible(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range d.ignoreExts {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return d.includeExts[filepath.Ext(lower)]
}
