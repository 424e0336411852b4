// Package project classifies a directory for strategy selection by looking
// for build-tool markers at its root.
package project

import (
	"os"
	"path/filepath"

	"github.com/mvp-joe/codelens/internal/model"
)

// marker is a file or directory whose presence identifies a Java build.
type marker struct {
	name      string
	buildTool string
}

var markers = []marker{
	{"pom.xml", "maven"},
	{"build.gradle", "gradle"},
	{"build.gradle.kts", "gradle"},
	{"build.xml", "ant"},
	{filepath.Join("src", "main", "java"), ""},
}

// Detect reports whether root looks like a Java project. Every Java
// project supports deep parsing; other projects are sampled.
func Detect(root string) model.ProjectInfo {
	var info model.ProjectInfo
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(root, m.name)); err != nil {
			continue
		}
		info.IsTargetLanguage = true
		info.SupportsDeepParse = true
		if m.buildTool != "" {
			info.BuildTool = m.buildTool
			break
		}
	}
	return info
}
