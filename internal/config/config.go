package config

import (
	"runtime"
	"strings"
)

// Config represents the complete codelens configuration.
// It can be loaded from .codelens/config.yml with environment variable overrides.
type Config struct {
	Sampling  SamplingConfig  `yaml:"sampling" mapstructure:"sampling"`
	DeepParse DeepParseConfig `yaml:"deep_parse" mapstructure:"deep_parse"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Workers   int             `yaml:"workers" mapstructure:"workers"` // concurrent file workers
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// SamplingConfig controls how files are excerpted.
type SamplingConfig struct {
	SmallFileSize          int64 `yaml:"small_file_size" mapstructure:"small_file_size"`       // bytes; at or below: full content
	MediumFileSize         int64 `yaml:"medium_file_size" mapstructure:"medium_file_size"`     // bytes; at or below: head/tail halves
	LargeHeadPercent       int   `yaml:"large_head_percent" mapstructure:"large_head_percent"` // share of lines kept from the top
	LargeTailPercent       int   `yaml:"large_tail_percent" mapstructure:"large_tail_percent"` // share of lines kept from the bottom
	LargeSampleCount       int   `yaml:"large_sample_count" mapstructure:"large_sample_count"` // middle chunks
	WindowSize             int   `yaml:"window_size" mapstructure:"window_size"`               // lines per windowed read
	StructureFallbackLines int   `yaml:"structure_fallback_lines" mapstructure:"structure_fallback_lines"`
	MediumOverlapLines     int   `yaml:"medium_overlap_lines" mapstructure:"medium_overlap_lines"`
}

// DeepParseConfig bounds syntax-tree parsing.
type DeepParseConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"` // bytes per file
	MaxFiles    int   `yaml:"max_files" mapstructure:"max_files"`         // parsed files per project
}

// PathsConfig defines which files are considered and which are ignored.
type PathsConfig struct {
	IgnoredDirs       []string          `yaml:"ignored_dirs" mapstructure:"ignored_dirs"`             // directory names or glob patterns
	IgnoredExtensions []string          `yaml:"ignored_extensions" mapstructure:"ignored_extensions"` // file suffixes, e.g. ".pyc", ".tar.gz"
	Languages         map[string][]string `yaml:"languages" mapstructure:"languages"`                 // language tag -> sampled extensions
}

// CacheConfig controls the in-process excerpt cache.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity int  `yaml:"capacity" mapstructure:"capacity"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // logrus level name
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

// DefaultIgnoredDirs are build, dependency, and tool directories skipped during traversal.
var DefaultIgnoredDirs = []string{
	"__pycache__", "venv", "virtualenv", ".venv", ".virtualenv",
	"node_modules", ".git", ".svn", ".hg", ".idea",
	"build", "dist", "target", "bin", "obj",
	".tox", ".pytest_cache", ".mypy_cache",
	".eggs", "*.egg-info", ".vscode",
	".next", ".nuxt", "coverage", ".coverage",
	"vendor", "bower_components",
}

// DefaultIgnoredExtensions are binary and generated file suffixes.
var DefaultIgnoredExtensions = []string{
	".pyc", ".pyo", ".pyd", ".pyi",
	".so", ".dll", ".dylib", ".exe", ".bin",
	".o", ".a", ".lib", ".obj",
	".class", ".jar", ".war", ".ear",
	".log", ".bak", ".tmp", ".swp", ".swo",
	".zip", ".tar", ".tar.gz", ".rar", ".7z",
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".svg",
	".mp3", ".mp4", ".avi", ".mov", ".wav",
	".ttf", ".otf", ".woff", ".woff2", ".eot",
	".pdb", ".idb", ".pch",
}

// DefaultLanguages maps language tags to the file extensions sampled for them.
func DefaultLanguages() map[string][]string {
	return map[string][]string{
		"python":     {".py"},
		"javascript": {".js", ".jsx"},
		"typescript": {".ts", ".tsx"},
		"java":       {".java"},
		"c":          {".c", ".h"},
		"cpp":        {".cc", ".cpp", ".hpp"},
		"csharp":     {".cs"},
		"go":         {".go"},
		"rust":       {".rs"},
		"ruby":       {".rb"},
		"php":        {".php"},
		"kotlin":     {".kt"},
		"html":       {".html"},
		"css":        {".css", ".scss", ".sass", ".less"},
		"xml":        {".xml"},
		"json":       {".json"},
		"yaml":       {".yaml", ".yml"},
		"sql":        {".sql"},
		"shell":      {".sh", ".bat"},
		"markdown":   {".md"},
		"vue":        {".vue"},
	}
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Sampling: SamplingConfig{
			SmallFileSize:          10 * 1024,
			MediumFileSize:         100 * 1024,
			LargeHeadPercent:       20,
			LargeTailPercent:       20,
			LargeSampleCount:       5,
			WindowSize:             200,
			StructureFallbackLines: 50,
			MediumOverlapLines:     50,
		},
		DeepParse: DeepParseConfig{
			MaxFileSize: 1024 * 1024,
			MaxFiles:    500,
		},
		Paths: PathsConfig{
			IgnoredDirs:       append([]string(nil), DefaultIgnoredDirs...),
			IgnoredExtensions: append([]string(nil), DefaultIgnoredExtensions...),
			Languages:         DefaultLanguages(),
		},
		Workers: runtime.NumCPU(),
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// CodeExtensions inverts Languages into an extension -> language lookup.
// Extensions are lowercased.
func (p *PathsConfig) CodeExtensions() map[string]string {
	out := make(map[string]string)
	for lang, exts := range p.Languages {
		for _, ext := range exts {
			out[strings.ToLower(ext)] = lang
		}
	}
	return out
}
