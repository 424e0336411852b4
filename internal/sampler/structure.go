package sampler

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codelens/internal/model"
)

var importPrefixes = []string{
	"import ", "from ", "#include ", "#import ", "using ", "package ", "use ", "require ",
}

var declarationPrefixes = []string{
	"class ", "def ", "async def ", "func ", "function ", "fn ", "pub ",
	"interface ", "type ", "struct ", "enum ", "trait ", "impl ", "record ",
	"public ", "private ", "protected ", "internal ",
	"abstract ", "static ", "final ", "synchronized ", "export ",
	"@",
}

var headerPrefixes = []string{
	"#!", "# -*-", "if __name__", "#pragma", "#define",
}

// isStructural reports whether a trimmed line is kept in structure view.
func isStructural(trimmed string) bool {
	for _, set := range [][]string{importPrefixes, declarationPrefixes, headerPrefixes} {
		for _, p := range set {
			if strings.HasPrefix(trimmed, p) {
				return true
			}
		}
	}
	return false
}

// scanner tracks block-comment state across lines. Triple-quoted blocks
// toggle on an odd number of delimiters in a line, so a docstring that
// opens and closes on one line leaves the state unchanged.
type scanner struct {
	inTriple bool
	inBlock  bool
}

// code returns the part of a trimmed line that lies outside comments,
// updating state as it goes. Comment delimiters inside string or character
// literals are text, so "/api/*" does not open a block.
func (s *scanner) code(trimmed string) string {
	triples := strings.Count(trimmed, `"""`) + strings.Count(trimmed, `'''`)
	if triples > 0 {
		if triples%2 == 1 {
			s.inTriple = !s.inTriple
		}
		return ""
	}
	if s.inTriple {
		return ""
	}

	var (
		b     strings.Builder
		quote byte
	)
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		next := byte(0)
		if i+1 < len(trimmed) {
			next = trimmed[i+1]
		}

		switch {
		case s.inBlock:
			if c == '*' && next == '/' {
				s.inBlock = false
				i++
			}
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && next != 0 {
				b.WriteByte(next)
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			b.WriteByte(c)
		case c == '/' && next == '*':
			s.inBlock = true
			i++
		case c == '/' && next == '/':
			return strings.TrimSpace(b.String())
		default:
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// readStructure keeps declaration-like lines prefixed with their 1-based
// line number. If nothing qualifies it falls back to the first
// fallbackLines lines verbatim.
func readStructure(name string, lines []string, fallbackLines int) body {
	var (
		sc   scanner
		kept strings.Builder
		segs []model.Segment
	)

	for i, line := range lines {
		if !isStructural(sc.code(strings.TrimSpace(line))) {
			continue
		}
		fmt.Fprintf(&kept, "%4d: %s", i+1, line)
		if !strings.HasSuffix(line, "\n") {
			kept.WriteByte('\n')
		}
		segs = appendLine(segs, i+1)
	}

	if len(segs) == 0 {
		n := min(fallbackLines, len(lines))
		b := body{content: strings.Join(lines[:n], ""), strategy: model.ReadStructure, fallback: true}
		if n > 0 {
			b.segments = []model.Segment{{Label: "head", StartLine: 1, EndLine: n}}
		}
		return b
	}

	var b strings.Builder
	writeHeader(&b, "File: %s | Structure view", name)
	b.WriteString(kept.String())
	return body{content: b.String(), segments: segs, strategy: model.ReadStructure}
}

// appendLine extends the last segment when line follows it directly.
func appendLine(segs []model.Segment, line int) []model.Segment {
	if n := len(segs); n > 0 && segs[n-1].EndLine == line-1 {
		segs[n-1].EndLine = line
		return segs
	}
	return append(segs, model.Segment{Label: "structure", StartLine: line, EndLine: line})
}
