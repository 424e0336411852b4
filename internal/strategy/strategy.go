// Package strategy picks the analysis mode for a whole project run.
package strategy

import "github.com/mvp-joe/codelens/internal/model"

// Select returns StrategyParsed only when the project is in the target
// language, deep analysis was requested, and the project supports it.
// Every other combination samples.
func Select(info model.ProjectInfo, deep bool) model.Strategy {
	if info.IsTargetLanguage && deep && info.SupportsDeepParse {
		return model.StrategyParsed
	}
	return model.StrategySampled
}
