package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/codelens/internal/result"
)

var (
	// ErrInvalidThreshold indicates inconsistent sampling size thresholds
	ErrInvalidThreshold = errors.New("invalid size threshold")

	// ErrInvalidPercent indicates a head/tail percentage outside its range
	ErrInvalidPercent = errors.New("invalid percentage")

	// ErrInvalidCount indicates a non-positive count or line setting
	ErrInvalidCount = errors.New("invalid count")

	// ErrInvalidPattern indicates an ignored-directory glob that does not compile
	ErrInvalidPattern = errors.New("invalid ignore pattern")

	// ErrInvalidExtension indicates a malformed file extension
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrInvalidLogging indicates an unknown log level or format
	ErrInvalidLogging = errors.New("invalid logging settings")
)

// Validate checks that the configuration is valid and complete.
// Every returned error matches result.ErrConfig.
func Validate(cfg *Config) error {
	var errs []error

	if err := ValidateSampling(&cfg.Sampling); err != nil {
		errs = append(errs, err)
	}
	if err := validateDeepParse(&cfg.DeepParse); err != nil {
		errs = append(errs, err)
	}
	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidCount, cfg.Workers))
	}
	if cfg.Cache.Enabled && cfg.Cache.Capacity < 1 {
		errs = append(errs, fmt.Errorf("%w: cache capacity must be positive when enabled, got %d", ErrInvalidCount, cfg.Cache.Capacity))
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", result.ErrConfig, joinErrors(errs))
	}
	return nil
}

// ValidateSampling checks the sampling thresholds on their own. The sampler
// calls it at construction so a bad configuration never reaches a read.
func ValidateSampling(cfg *SamplingConfig) error {
	var errs []error

	if cfg.SmallFileSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: small_file_size must be positive, got %d", ErrInvalidThreshold, cfg.SmallFileSize))
	}
	if cfg.MediumFileSize <= cfg.SmallFileSize {
		errs = append(errs, fmt.Errorf("%w: medium_file_size (%d) must exceed small_file_size (%d)",
			ErrInvalidThreshold, cfg.MediumFileSize, cfg.SmallFileSize))
	}

	if cfg.LargeHeadPercent < 0 || cfg.LargeHeadPercent > 100 {
		errs = append(errs, fmt.Errorf("%w: large_head_percent must be in [0,100], got %d", ErrInvalidPercent, cfg.LargeHeadPercent))
	}
	if cfg.LargeTailPercent < 0 || cfg.LargeTailPercent > 100 {
		errs = append(errs, fmt.Errorf("%w: large_tail_percent must be in [0,100], got %d", ErrInvalidPercent, cfg.LargeTailPercent))
	}
	if cfg.LargeHeadPercent+cfg.LargeTailPercent >= 100 {
		errs = append(errs, fmt.Errorf("%w: head (%d) + tail (%d) must leave a middle section",
			ErrInvalidPercent, cfg.LargeHeadPercent, cfg.LargeTailPercent))
	}

	if cfg.LargeSampleCount < 1 {
		errs = append(errs, fmt.Errorf("%w: large_sample_count must be at least 1, got %d", ErrInvalidCount, cfg.LargeSampleCount))
	}
	if cfg.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("%w: window_size must be at least 1, got %d", ErrInvalidCount, cfg.WindowSize))
	}
	if cfg.StructureFallbackLines < 1 {
		errs = append(errs, fmt.Errorf("%w: structure_fallback_lines must be at least 1, got %d", ErrInvalidCount, cfg.StructureFallbackLines))
	}
	if cfg.MediumOverlapLines < 0 {
		errs = append(errs, fmt.Errorf("%w: medium_overlap_lines cannot be negative, got %d", ErrInvalidCount, cfg.MediumOverlapLines))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateDeepParse(cfg *DeepParseConfig) error {
	var errs []error

	if cfg.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: deep_parse.max_file_size must be positive, got %d", ErrInvalidThreshold, cfg.MaxFileSize))
	}
	if cfg.MaxFiles < 1 {
		errs = append(errs, fmt.Errorf("%w: deep_parse.max_files must be at least 1, got %d", ErrInvalidCount, cfg.MaxFiles))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	for _, pattern := range cfg.IgnoredDirs {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}
	for _, ext := range cfg.IgnoredExtensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("%w: ignored extension %q must start with '.'", ErrInvalidExtension, ext))
		}
	}
	seen := make(map[string]string)
	for _, lang := range sortedKeys(cfg.Languages) {
		for _, ext := range cfg.Languages[lang] {
			if !strings.HasPrefix(ext, ".") {
				errs = append(errs, fmt.Errorf("%w: %s extension %q must start with '.'", ErrInvalidExtension, lang, ext))
				continue
			}
			key := strings.ToLower(ext)
			if prev, ok := seen[key]; ok && prev != lang {
				errs = append(errs, fmt.Errorf("%w: %q claimed by both %s and %s", ErrInvalidExtension, ext, prev, lang))
				continue
			}
			seen[key] = lang
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	var errs []error

	if _, err := logrus.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidLogging, err))
	}
	switch strings.ToLower(cfg.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: format must be 'text' or 'json', got '%s'", ErrInvalidLogging, cfg.Format))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// validationErrors keeps every underlying error reachable through errors.Is.
type validationErrors []error

func (v validationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (v validationErrors) Unwrap() []error { return v }

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return validationErrors(errs)
}
