package pipeline

import (
	"fmt"
	"regexp"
)

// Bounds enforced by Validate. All times in milliseconds.
const (
	MinStageTimeout    = 1
	MaxStageTimeout    = 7_200_000 // 2h
	MinConcurrency     = 1
	MaxConcurrency     = 10
	MaxPipelineTimeout = 86_400_000 // 24h
)

var idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidationError reports the first structural problem found in a pipeline
// definition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid pipeline definition: %s: %s", e.Field, e.Reason)
}

// Validate rejects structurally invalid definitions before any execution
// begins. It is a pure check: it fails fast on the first violation and never
// repairs the config.
func Validate(c *Config) error {
	if !idPattern.MatchString(c.ID) {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("%q must match %s", c.ID, idPattern)}
	}
	if len(c.Stages) == 0 {
		return &ValidationError{Field: "stages", Reason: "pipeline has no stages"}
	}

	seen := make(map[string]struct{}, len(c.Stages))
	for _, s := range c.Stages {
		if _, dup := seen[s.ID]; dup {
			return &ValidationError{Field: "stages", Reason: fmt.Sprintf("duplicate stage id %q", s.ID)}
		}
		seen[s.ID] = struct{}{}
	}

	for _, s := range c.Stages {
		field := fmt.Sprintf("stages[%s]", s.ID)
		if !idPattern.MatchString(s.ID) {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("id %q must match %s", s.ID, idPattern)}
		}
		for _, dep := range s.Dependencies {
			if dep == s.ID {
				return &ValidationError{Field: field, Reason: "stage depends on itself"}
			}
			if _, ok := seen[dep]; !ok {
				return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown dependency %q", dep)}
			}
		}
		if s.Timeout < MinStageTimeout || s.Timeout > MaxStageTimeout {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("timeout %dms outside [%d, %d]", s.Timeout, MinStageTimeout, MaxStageTimeout)}
		}
		if s.SuccessRate < 0 || s.SuccessRate > 1 {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("successRate %v outside [0, 1]", s.SuccessRate)}
		}
		if s.Duration.Min <= 0 || s.Duration.Max <= 0 || s.Duration.Min > s.Duration.Max {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("durationRange [%d, %d] invalid: both bounds must be positive and min <= max", s.Duration.Min, s.Duration.Max)}
		}
	}

	if c.Settings.MaxConcurrency < MinConcurrency || c.Settings.MaxConcurrency > MaxConcurrency {
		return &ValidationError{Field: "settings.maxConcurrency", Reason: fmt.Sprintf("%d outside [%d, %d]", c.Settings.MaxConcurrency, MinConcurrency, MaxConcurrency)}
	}
	if c.Settings.Timeout <= 0 || c.Settings.Timeout > MaxPipelineTimeout {
		return &ValidationError{Field: "settings.timeout", Reason: fmt.Sprintf("%dms outside (0, %d]", c.Settings.Timeout, MaxPipelineTimeout)}
	}

	return nil
}
