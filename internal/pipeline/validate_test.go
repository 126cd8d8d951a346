package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ID:      "demo-pipeline",
		Name:    "Demo",
		Version: "1.0.0",
		Stages: []Stage{
			{
				ID:          "build",
				Type:        StageDockerBuild,
				Timeout:     30_000,
				SuccessRate: 0.95,
				Duration:    DurationRange{Min: 1000, Max: 5000, BaseMultiplier: 1},
			},
			{
				ID:           "test",
				Type:         StageUnitTests,
				Dependencies: []string{"build"},
				Timeout:      60_000,
				SuccessRate:  0.9,
				Duration:     DurationRange{Min: 2000, Max: 8000, BaseMultiplier: 1},
			},
		},
		Settings: Settings{
			Mode:           ModeDeterministic,
			MaxConcurrency: 2,
			FailFast:       true,
			Timeout:        600_000,
		},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		reason string
	}{
		{
			name:   "bad pipeline id",
			mutate: func(c *Config) { c.ID = "Not Valid!" },
			reason: "must match",
		},
		{
			name:   "empty stage list",
			mutate: func(c *Config) { c.Stages = nil },
			reason: "no stages",
		},
		{
			name: "duplicate stage ids",
			mutate: func(c *Config) {
				c.Stages = append(c.Stages, c.Stages[0])
			},
			reason: "duplicate stage id",
		},
		{
			name:   "bad stage id",
			mutate: func(c *Config) { c.Stages[0].ID = "Build_1" },
			reason: "must match",
		},
		{
			name: "self dependency",
			mutate: func(c *Config) {
				c.Stages[0].Dependencies = []string{"build"}
			},
			reason: "depends on itself",
		},
		{
			name: "unknown dependency",
			mutate: func(c *Config) {
				c.Stages[0].Dependencies = []string{"ghost"}
			},
			reason: "unknown dependency",
		},
		{
			name:   "timeout too small",
			mutate: func(c *Config) { c.Stages[0].Timeout = 0 },
			reason: "timeout",
		},
		{
			name:   "timeout too large",
			mutate: func(c *Config) { c.Stages[0].Timeout = MaxStageTimeout + 1 },
			reason: "timeout",
		},
		{
			name:   "success rate above one",
			mutate: func(c *Config) { c.Stages[0].SuccessRate = 1.01 },
			reason: "successRate",
		},
		{
			name:   "success rate below zero",
			mutate: func(c *Config) { c.Stages[0].SuccessRate = -0.1 },
			reason: "successRate",
		},
		{
			name: "duration range inverted",
			mutate: func(c *Config) {
				c.Stages[0].Duration = DurationRange{Min: 5000, Max: 1000, BaseMultiplier: 1}
			},
			reason: "durationRange",
		},
		{
			name: "duration range non-positive",
			mutate: func(c *Config) {
				c.Stages[0].Duration = DurationRange{Min: 0, Max: 1000, BaseMultiplier: 1}
			},
			reason: "durationRange",
		},
		{
			name:   "max concurrency zero",
			mutate: func(c *Config) { c.Settings.MaxConcurrency = 0 },
			reason: "maxConcurrency",
		},
		{
			name:   "max concurrency too large",
			mutate: func(c *Config) { c.Settings.MaxConcurrency = 11 },
			reason: "maxConcurrency",
		},
		{
			name:   "pipeline timeout zero",
			mutate: func(c *Config) { c.Settings.Timeout = 0 },
			reason: "settings.timeout",
		},
		{
			name:   "pipeline timeout too large",
			mutate: func(c *Config) { c.Settings.Timeout = MaxPipelineTimeout + 1 },
			reason: "settings.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.ErrorContains(t, err, tt.reason)
		})
	}
}

func TestValidateBoundaryValues(t *testing.T) {
	cfg := validConfig()
	cfg.Stages[0].Timeout = MinStageTimeout
	cfg.Stages[1].Timeout = MaxStageTimeout
	cfg.Stages[0].SuccessRate = 0
	cfg.Stages[1].SuccessRate = 1
	cfg.Settings.MaxConcurrency = MaxConcurrency
	cfg.Settings.Timeout = MaxPipelineTimeout

	assert.NoError(t, Validate(cfg))
}
