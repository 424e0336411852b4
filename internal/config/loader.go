// Package config loads codelens settings.
//
// Configuration priority (highest to lowest):
//  1. Environment variables (CODELENS_*)
//  2. Project .env file (CODELENS_* keys only)
//  3. Project config (<root>/.codelens/config.yml)
//  4. User config (~/.codelens/config.yml)
//  5. Built-in defaults
//
// Nested keys map to env names with underscores, e.g.
// CODELENS_SAMPLING_SMALL_FILE_SIZE or CODELENS_DEEP_PARSE_MAX_FILES.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mvp-joe/codelens/internal/result"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".codelens"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CODELENS"

// keys lists every scalar or list setting that may be overridden from the
// environment. Languages is a map and only comes from config files.
var keys = []string{
	"sampling.small_file_size",
	"sampling.medium_file_size",
	"sampling.large_head_percent",
	"sampling.large_tail_percent",
	"sampling.large_sample_count",
	"sampling.window_size",
	"sampling.structure_fallback_lines",
	"sampling.medium_overlap_lines",
	"deep_parse.max_file_size",
	"deep_parse.max_files",
	"paths.ignored_dirs",
	"paths.ignored_extensions",
	"workers",
	"cache.enabled",
	"cache.capacity",
	"logging.level",
	"logging.format",
}

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	homeDir string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithHomeDir overrides the directory searched for the user config.
// An empty value disables the user config layer.
func WithHomeDir(dir string) LoaderOption {
	return func(l *loader) { l.homeDir = dir }
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	// User config first so the project file merges over it.
	if l.homeDir != "" {
		if err := mergeFile(v, filepath.Join(l.homeDir, DirName)); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(v, filepath.Join(l.rootDir, DirName)); err != nil {
		return nil, err
	}

	if err := applyDotEnv(v, filepath.Join(l.rootDir, ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", result.ErrConfig, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile merges config.yml or config.yaml from dir into v. A missing
// file is not an error.
func mergeFile(v *viper.Viper, dir string) error {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: failed to stat config file: %v", result.ErrConfig, err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("%w: failed to read config file %s: %v", result.ErrConfig, path, err)
		}
		return nil
	}
	return nil
}

// applyDotEnv reads CODELENS_* keys from a .env file without touching the
// process environment. Real environment variables keep precedence.
func applyDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: failed to read %s: %v", result.ErrConfig, path, err)
	}

	for _, key := range keys {
		name := envName(key)
		val, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, val)
	}
	return nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Sampling defaults
	v.SetDefault("sampling.small_file_size", defaults.Sampling.SmallFileSize)
	v.SetDefault("sampling.medium_file_size", defaults.Sampling.MediumFileSize)
	v.SetDefault("sampling.large_head_percent", defaults.Sampling.LargeHeadPercent)
	v.SetDefault("sampling.large_tail_percent", defaults.Sampling.LargeTailPercent)
	v.SetDefault("sampling.large_sample_count", defaults.Sampling.LargeSampleCount)
	v.SetDefault("sampling.window_size", defaults.Sampling.WindowSize)
	v.SetDefault("sampling.structure_fallback_lines", defaults.Sampling.StructureFallbackLines)
	v.SetDefault("sampling.medium_overlap_lines", defaults.Sampling.MediumOverlapLines)

	// Deep parse defaults
	v.SetDefault("deep_parse.max_file_size", defaults.DeepParse.MaxFileSize)
	v.SetDefault("deep_parse.max_files", defaults.DeepParse.MaxFiles)

	// Paths defaults
	v.SetDefault("paths.ignored_dirs", defaults.Paths.IgnoredDirs)
	v.SetDefault("paths.ignored_extensions", defaults.Paths.IgnoredExtensions)
	// Languages is set per entry so a config file adds to the table
	// instead of replacing it.
	for lang, exts := range defaults.Paths.Languages {
		v.SetDefault("paths.languages."+lang, exts)
	}

	v.SetDefault("workers", defaults.Workers)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
