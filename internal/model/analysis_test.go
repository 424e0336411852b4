package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test Plan for ProjectAnalysis serialization:
// - Sampled and parsed runs both write their per-file results under "files"
// - An empty run writes an empty files list, never null
// - JSON decoding routes files back into Excerpts or Parsed by strategy_tag
// - YAML output uses the same single files key

func TestProjectAnalysis_FilesKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analysis ProjectAnalysis
		path     string
	}{
		{
			name: "sampled",
			analysis: ProjectAnalysis{
				Strategy:   StrategySampled,
				Excerpts:   []FileExcerpt{{Path: "main.py", Language: "python", TotalLines: 3}},
				TotalFiles: 1,
			},
			path: "main.py",
		},
		{
			name: "parsed",
			analysis: ProjectAnalysis{
				Strategy:   StrategyParsed,
				Parsed:     []FileAnalysis{{Path: "App.java", Package: "demo", TotalLines: 7}},
				TotalFiles: 1,
			},
			path: "App.java",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(&tt.analysis)
			require.NoError(t, err)

			var doc map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(data, &doc))
			assert.NotContains(t, doc, "excerpts")
			assert.NotContains(t, doc, "parsed")

			var files []map[string]any
			require.NoError(t, json.Unmarshal(doc["files"], &files))
			require.Len(t, files, 1)
			assert.Equal(t, tt.path, files[0]["path"])

			var back ProjectAnalysis
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.analysis.Strategy, back.Strategy)
			assert.Equal(t, []string{tt.path}, back.Paths())
			if tt.analysis.Strategy == StrategyParsed {
				assert.Empty(t, back.Excerpts)
				assert.Equal(t, "demo", back.Parsed[0].Package)
			} else {
				assert.Empty(t, back.Parsed)
				assert.Equal(t, "python", back.Excerpts[0].Language)
			}
		})
	}
}

func TestProjectAnalysis_EmptyFilesIsList(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ProjectAnalysis{Strategy: StrategyParsed})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files":[]`)
}

func TestProjectAnalysis_YAMLFilesKey(t *testing.T) {
	t.Parallel()

	pa := &ProjectAnalysis{
		Strategy: StrategySampled,
		Excerpts: []FileExcerpt{{Path: "README.md"}},
	}
	out, err := yaml.Marshal(pa)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "sampled", doc["strategy_tag"])
	assert.NotContains(t, doc, "excerpts")
	files, ok := doc["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 1)
	assert.Equal(t, "README.md", files[0].(map[string]any)["path"])
}
