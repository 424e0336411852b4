package result

import (
	"errors"
	"io/fs"
)

// Kind is the machine-readable error class carried in Result.Error.
type Kind string

const (
	KindIO            Kind = "IOError"
	KindEncoding      Kind = "EncodingError"
	KindParse         Kind = "ParseError"
	KindLimitExceeded Kind = "LimitExceeded"
	KindConfig        Kind = "ConfigError"
)

var (
	// ErrIO indicates a missing, unreadable, or otherwise inaccessible path.
	ErrIO = errors.New("io error")

	// ErrEncoding indicates file content that is not valid UTF-8 text.
	ErrEncoding = errors.New("encoding error")

	// ErrParse indicates that a syntax tree could not be built.
	ErrParse = errors.New("parse error")

	// ErrLimitExceeded indicates a file or project size cap was hit.
	// It marks a skip, not a failure.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("invalid configuration")
)

// KindOf classifies err. Filesystem errors that were not wrapped with a
// sentinel are reported as IOError.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEncoding):
		return KindEncoding
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrLimitExceeded):
		return KindLimitExceeded
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrIO), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return KindIO
	default:
		return KindIO
	}
}
