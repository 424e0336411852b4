// Package result provides the uniform envelope returned by every public
// analysis operation, together with the error taxonomy it reports.
package result

// Result is the envelope returned by boundary operations. Data is only
// meaningful when Success is true. Error holds the short machine-readable
// kind and Message the human-readable detail.
type Result[T any] struct {
	Success  bool           `json:"success" yaml:"success"`
	Data     T              `json:"data,omitempty" yaml:"data,omitempty"`
	Error    Kind           `json:"error,omitempty" yaml:"error,omitempty"`
	Message  string         `json:"message,omitempty" yaml:"message,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	err error
}

// OK wraps data in a successful result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed result from err.
func Fail[T any](err error) Result[T] {
	return Result[T]{
		Success: false,
		Error:   KindOf(err),
		Message: err.Error(),
		err:     err,
	}
}

// WithMetadata returns a copy of r with key set in its metadata.
func (r Result[T]) WithMetadata(key string, value any) Result[T] {
	md := make(map[string]any, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		md[k] = v
	}
	md[key] = value
	r.Metadata = md
	return r
}

// Err returns the underlying error of a failed result, or nil.
func (r Result[T]) Err() error {
	return r.err
}
