package analyzer

import "github.com/mvp-joe/codelens/internal/model"

// ProgressReporter receives callbacks during a run. Calls are serialized.
type ProgressReporter interface {
	// OnDiscoveryComplete is called once eligible files are known.
	OnDiscoveryComplete(strategy model.Strategy, files int)

	// OnFileProcessed is called after each file, whether it succeeded or not.
	OnFileProcessed(path string)

	// OnComplete is called with the assembled analysis.
	OnComplete(analysis *model.ProjectAnalysis)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryComplete(model.Strategy, int) {}
func (NoOpProgressReporter) OnFileProcessed(string)                  {}
func (NoOpProgressReporter) OnComplete(*model.ProjectAnalysis)       {}
