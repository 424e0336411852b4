package result

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"io sentinel", fmt.Errorf("%w: a.txt", ErrIO), KindIO},
		{"not exist", fmt.Errorf("open: %w", fs.ErrNotExist), KindIO},
		{"encoding", fmt.Errorf("%w: bad bytes", ErrEncoding), KindEncoding},
		{"parse", fmt.Errorf("%w: Foo.java", ErrParse), KindParse},
		{"limit", fmt.Errorf("%w: too large", ErrLimitExceeded), KindLimitExceeded},
		{"config", fmt.Errorf("%w: bad percent", ErrConfig), KindConfig},
		{"unknown", fmt.Errorf("boom"), KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestResult_OKAndFail(t *testing.T) {
	t.Parallel()

	ok := OK(42)
	assert.True(t, ok.Success)
	assert.Equal(t, 42, ok.Data)
	assert.Empty(t, ok.Error)
	assert.NoError(t, ok.Err())

	err := fmt.Errorf("%w: missing.txt", ErrIO)
	failed := Fail[int](err)
	assert.False(t, failed.Success)
	assert.Equal(t, KindIO, failed.Error)
	assert.Contains(t, failed.Message, "missing.txt")
	require.ErrorIs(t, failed.Err(), ErrIO)
}

func TestResult_WithMetadataCopies(t *testing.T) {
	t.Parallel()

	base := OK("x").WithMetadata("a", 1)
	derived := base.WithMetadata("b", 2)

	assert.Len(t, base.Metadata, 1)
	assert.Len(t, derived.Metadata, 2)
	assert.Equal(t, 1, derived.Metadata["a"])
}
