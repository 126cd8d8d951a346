package pipeline

// StageType identifies which synthetic execution script a stage runs.
type StageType string

const (
	StageTrigger     StageType = "trigger"
	StageAIReview    StageType = "ai-review"
	StageDockerBuild StageType = "docker-build"
	StageUnitTests   StageType = "unit-tests"
	StageDeploy      StageType = "deploy"

	// StageGeneric is the fallback for unrecognized stage types.
	StageGeneric StageType = "generic"
)

// SimulationMode selects the timing model applied to every stage in a run.
type SimulationMode string

const (
	ModeFast          SimulationMode = "fast"
	ModeRealistic     SimulationMode = "realistic"
	ModeChaotic       SimulationMode = "chaotic"
	ModeDeterministic SimulationMode = "deterministic"
)

// Config is a complete declarative pipeline definition. All durations and
// timeouts are expressed in milliseconds.
type Config struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Version     string            `json:"version" yaml:"version"`
	Stages      []Stage           `json:"stages" yaml:"stages"`
	Environment map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`
	Settings    Settings          `json:"settings" yaml:"settings"`
}

// Settings holds the pipeline-wide simulation parameters.
type Settings struct {
	Mode           SimulationMode `json:"mode" yaml:"mode"`
	MaxConcurrency int            `json:"maxConcurrency" yaml:"maxConcurrency"`
	FailFast       bool           `json:"failFast" yaml:"failFast"`
	Timeout        int64          `json:"timeout" yaml:"timeout"`
}

// Stage is one named unit of pipeline work.
type Stage struct {
	ID           string            `json:"id" yaml:"id"`
	Type         StageType         `json:"type" yaml:"type"`
	Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Timeout      int64             `json:"timeout" yaml:"timeout"`
	SuccessRate  float64           `json:"successRate" yaml:"successRate"`
	Duration     DurationRange     `json:"durationRange" yaml:"durationRange"`
	Config       map[string]string `json:"config,omitempty" yaml:"config,omitempty"`
}

// DurationRange bounds a stage's synthetic duration, in milliseconds.
type DurationRange struct {
	Min            int64   `json:"min" yaml:"min"`
	Max            int64   `json:"max" yaml:"max"`
	BaseMultiplier float64 `json:"baseMultiplier" yaml:"baseMultiplier"`
}

// Midpoint returns the center of the range in milliseconds.
func (d DurationRange) Midpoint() float64 {
	return float64(d.Min+d.Max) / 2
}

// Clamp forces v into [Min, Max].
func (d DurationRange) Clamp(v float64) float64 {
	if v < float64(d.Min) {
		return float64(d.Min)
	}
	if v > float64(d.Max) {
		return float64(d.Max)
	}
	return v
}

// Normalize fills in the defaults a definition file may omit. It never
// overrides an explicitly set value.
func (c *Config) Normalize() {
	if c.Settings.Mode == "" {
		c.Settings.Mode = ModeRealistic
	}
	for i := range c.Stages {
		if c.Stages[i].Duration.BaseMultiplier == 0 {
			c.Stages[i].Duration.BaseMultiplier = 1
		}
	}
}

// StageByID returns the stage with the given ID, or false when absent.
func (c *Config) StageByID(id string) (Stage, bool) {
	for _, s := range c.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}
