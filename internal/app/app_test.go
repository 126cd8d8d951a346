package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

const passingDefinition = `{
  "id": "app-test",
  "name": "App test",
  "stages": [
    {"id": "build", "type": "docker-build", "timeout": 10000, "successRate": 1,
     "durationRange": {"min": 1, "max": 2}},
    {"id": "verify", "type": "unit-tests", "dependencies": ["build"], "timeout": 10000,
     "successRate": 1, "durationRange": {"min": 1, "max": 2}}
  ],
  "settings": {"mode": "deterministic", "maxConcurrency": 2, "failFast": true, "timeout": 600000}
}`

const failingDefinition = `{
  "id": "app-test-failing",
  "name": "App test failing",
  "stages": [
    {"id": "doomed", "type": "generic", "timeout": 10000, "successRate": 0,
     "durationRange": {"min": 1, "max": 2}}
  ],
  "settings": {"mode": "deterministic", "maxConcurrency": 1, "failFast": true, "timeout": 600000}
}`

func newOneShotApp(t *testing.T, definition string) (*App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o600))

	var out bytes.Buffer
	a, err := New(&out, &bytes.Buffer{}, &Config{
		PipelinePath: path,
		Seed:         3,
		NoDelay:      true,
		SettingsPath: filepath.Join(dir, "no-settings.toml"),
	})
	require.NoError(t, err)
	return a, &out
}

func TestRunOnceWritesResultJSON(t *testing.T) {
	a, out := newOneShotApp(t, passingDefinition)

	require.NoError(t, a.Run(context.Background()))

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, pipeline.RunSuccess, result.Status)
	assert.Equal(t, "app-test", result.PipelineID)
	assert.Len(t, result.Stages, 2)
}

func TestRunOnceFailedPipelineReturnsError(t *testing.T) {
	a, out := newOneShotApp(t, failingDefinition)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status failed")

	// The result is still written before the error is reported.
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, pipeline.RunFailed, result.Status)
}

func TestRunOnceWritesToOutPath(t *testing.T) {
	a, out := newOneShotApp(t, passingDefinition)
	outPath := filepath.Join(t.TempDir(), "result.json")
	a.config.OutPath = outPath

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.Bytes())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, pipeline.RunSuccess, result.Status)
}

func TestRunOnceMissingPipelineFile(t *testing.T) {
	var out bytes.Buffer
	a, err := New(&out, &bytes.Buffer{}, &Config{
		PipelinePath: filepath.Join(t.TempDir(), "absent.json"),
		SettingsPath: filepath.Join(t.TempDir(), "no-settings.toml"),
	})
	require.NoError(t, err)

	assert.Error(t, a.Run(context.Background()))
}
