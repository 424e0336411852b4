package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/codelens/internal/model"
)

// progressReporter draws a progress bar per analysis run on stderr.
type progressReporter struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	started time.Time
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

func (p *progressReporter) OnDiscoveryComplete(strategy model.Strategy, files int) {
	p.started = time.Now()
	desc := "Sampling files"
	if strategy == model.StrategyParsed {
		desc = "Parsing files"
	}
	p.bar = progressbar.NewOptions(files,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

func (p *progressReporter) OnFileProcessed(string) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progressReporter) OnComplete(a *model.ProjectAnalysis) {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
	fmt.Fprintf(p.out, "✓ Analyzed %d files (%d lines) in %.1fs\n",
		a.TotalFiles, a.TotalLines, time.Since(p.started).Seconds())
}
