package sampler

import (
	"fmt"
	"strings"
)

const separator = "============================================================"

// splitLines splits text into lines that keep their terminators. A final
// line without a newline still counts; empty text has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

// writeLines appends lines to b, terminating the block with a newline.
func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
	}
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		b.WriteByte('\n')
	}
}

func writeHeader(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
	b.WriteString(separator)
	b.WriteByte('\n')
}

func writeMarker(b *strings.Builder, format string, args ...any) {
	b.WriteByte('[')
	fmt.Fprintf(b, format, args...)
	b.WriteString("]\n")
}
