package sampler

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codelens/internal/config"
	"github.com/mvp-joe/codelens/internal/model"
)

// body is the mode-specific part of an excerpt.
type body struct {
	content  string
	segments []model.Segment
	strategy model.ReadStrategy
	fallback bool
}

func readFull(text string, lines []string) body {
	b := body{content: text, strategy: model.ReadFull}
	if len(lines) > 0 {
		b.segments = []model.Segment{{Label: "full", StartLine: 1, EndLine: len(lines)}}
	}
	return b
}

// readMedium keeps the first half of the file and a second half that starts
// overlap lines before the midpoint.
func readMedium(name string, lines []string, overlap int) body {
	total := len(lines)
	mid := (total + 1) / 2

	tailStart := mid
	if mid > overlap {
		tailStart = mid - overlap
	}

	var b strings.Builder
	writeHeader(&b, "File: %s | Total lines: %d | Showing: Smart sample", name, total)

	segs := []model.Segment{{Label: "head", StartLine: 1, EndLine: mid}}
	writeMarker(&b, "FIRST HALF - lines 1-%d", mid)
	writeLines(&b, lines[:mid])

	if tailStart < total {
		segs = append(segs, model.Segment{Label: "tail", StartLine: tailStart + 1, EndLine: total})
		b.WriteString("\n" + separator + "\n")
		writeMarker(&b, "SECOND HALF - lines %d-%d", tailStart+1, total)
		writeLines(&b, lines[tailStart:])
	}

	return body{content: b.String(), segments: segs, strategy: model.ReadMedium}
}

// largeLayout computes 0-based half-open bounds for the head, the middle
// sample chunks, and the tail. Middle lines past the last full chunk are
// dropped.
func largeLayout(total int, cfg config.SamplingConfig) (headEnd int, chunks [][2]int, tailStart int) {
	headEnd = max(1, total*cfg.LargeHeadPercent/100)
	headEnd = min(headEnd, total)
	tailStart = max(headEnd, total*(100-cfg.LargeTailPercent)/100)

	middle := tailStart - headEnd
	if middle == 0 {
		return headEnd, nil, tailStart
	}

	size := max(1, middle/cfg.LargeSampleCount)
	for i := 0; i < cfg.LargeSampleCount; i++ {
		start := i * size
		if start >= middle {
			break
		}
		end := min(start+size, middle)
		chunks = append(chunks, [2]int{headEnd + start, headEnd + end})
	}
	return headEnd, chunks, tailStart
}

func readLarge(name string, lines []string, cfg config.SamplingConfig) body {
	total := len(lines)
	if total == 0 {
		return body{content: "File: " + name + " | Empty file\n", strategy: model.ReadLarge}
	}

	headEnd, chunks, tailStart := largeLayout(total, cfg)

	var b strings.Builder
	writeHeader(&b, "File: %s | Total lines: %d | Showing: Large file sample", name, total)

	segs := []model.Segment{{Label: "head", StartLine: 1, EndLine: headEnd}}
	writeMarker(&b, "HEAD - lines 1-%d", headEnd)
	writeLines(&b, lines[:headEnd])

	if len(chunks) > 0 {
		b.WriteString("\n" + separator + "\n")
		writeMarker(&b, "MIDDLE SAMPLES")
		for i, c := range chunks {
			segs = append(segs, model.Segment{Label: fmt.Sprintf("sample-%d", i+1), StartLine: c[0] + 1, EndLine: c[1]})
			writeMarker(&b, "SAMPLE %d - lines %d-%d", i+1, c[0]+1, c[1])
			writeLines(&b, lines[c[0]:c[1]])
		}
	}

	if tailStart < total {
		segs = append(segs, model.Segment{Label: "tail", StartLine: tailStart + 1, EndLine: total})
		b.WriteString("\n" + separator + "\n")
		writeMarker(&b, "TAIL - lines %d-%d", tailStart+1, total)
		writeLines(&b, lines[tailStart:])
	}

	return body{content: b.String(), segments: segs, strategy: model.ReadLarge}
}

// readWindow returns lines [offset, offset+size) clipped to the file.
func readWindow(name string, lines []string, offset, size int) body {
	total := len(lines)
	start := min(max(0, offset), total)
	end := min(start+size, total)

	var b strings.Builder
	if start == end {
		writeHeader(&b, "File: %s | No lines at offset %d of %d", name, offset, total)
		return body{content: b.String(), strategy: model.ReadWindow}
	}

	writeHeader(&b, "File: %s | Lines %d-%d of %d", name, start+1, end, total)
	writeLines(&b, lines[start:end])
	return body{
		content:  b.String(),
		segments: []model.Segment{{Label: "window", StartLine: start + 1, EndLine: end}},
		strategy: model.ReadWindow,
	}
}
