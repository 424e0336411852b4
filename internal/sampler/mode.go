package sampler

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codelens/internal/result"
)

// ModeKind selects a read mode.
type ModeKind string

const (
	ModeFull      ModeKind = "full"
	ModeSmart     ModeKind = "smart"
	ModeStructure ModeKind = "structure"
	ModeWindowed  ModeKind = "windowed"
)

// Mode is a read request. Offset is only used by ModeWindowed and is a
// 0-based line index.
type Mode struct {
	Kind   ModeKind
	Offset int
}

func Full() Mode      { return Mode{Kind: ModeFull} }
func Smart() Mode     { return Mode{Kind: ModeSmart} }
func Structure() Mode { return Mode{Kind: ModeStructure} }

// Windowed reads a fixed-size window of lines starting at offset.
// Negative offsets are treated as 0.
func Windowed(offset int) Mode {
	if offset < 0 {
		offset = 0
	}
	return Mode{Kind: ModeWindowed, Offset: offset}
}

// ParseMode converts a user-supplied mode name. An empty name means smart.
func ParseMode(name string, offset int) (Mode, error) {
	switch ModeKind(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeSmart:
		return Smart(), nil
	case ModeFull:
		return Full(), nil
	case ModeStructure:
		return Structure(), nil
	case ModeWindowed, "window":
		return Windowed(offset), nil
	default:
		return Mode{}, fmt.Errorf("%w: unknown read mode %q (want full, smart, structure or windowed)", result.ErrConfig, name)
	}
}

func (m Mode) String() string {
	if m.Kind == ModeWindowed {
		return fmt.Sprintf("%s(%d)", m.Kind, m.Offset)
	}
	return string(m.Kind)
}
