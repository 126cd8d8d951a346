package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePipelinePathVariants(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"long flag", []string{"-pipeline", "demo.json"}},
		{"short flag", []string{"-p", "demo.json"}},
		{"positional", []string{"demo.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, exit, err := Parse(tt.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.False(t, exit)
			assert.Equal(t, "demo.json", cfg.PipelinePath)
		})
	}
}

func TestParseAllOptions(t *testing.T) {
	cfg, exit, err := Parse([]string{
		"-seed", "42",
		"-no-delay",
		"-out", "result.json",
		"-log-format", "JSON",
		"-log-level", "DEBUG",
		"-settings", "custom.toml",
		"demo.yaml",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "demo.yaml", cfg.PipelinePath)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.True(t, cfg.NoDelay)
	assert.Equal(t, "result.json", cfg.OutPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "custom.toml", cfg.SettingsPath)
}

func TestParseServeMode(t *testing.T) {
	cfg, exit, err := Parse([]string{"-serve", "-port", "8088"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.True(t, cfg.Serve)
	assert.Equal(t, 8088, cfg.Port)
	assert.Empty(t, cfg.PipelinePath)
}

func TestParseNoArgumentsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidLogFormat(t *testing.T) {
	_, _, err := Parse([]string{"-log-format", "xml", "demo.json"}, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	_, _, err := Parse([]string{"-log-level", "verbose", "demo.json"}, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseUnknownFlag(t *testing.T) {
	_, _, err := Parse([]string{"-bogus"}, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
