package pipeline

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclRoot is the top-level HCL document: exactly one pipeline block.
type hclRoot struct {
	Pipeline *hclPipeline `hcl:"pipeline,block"`
}

type hclPipeline struct {
	ID          string            `hcl:"id,label"`
	Name        string            `hcl:"name"`
	Version     string            `hcl:"version,optional"`
	Environment map[string]string `hcl:"environment,optional"`
	Settings    *hclSettings      `hcl:"settings,block"`
	Stages      []hclStage        `hcl:"stage,block"`
}

type hclSettings struct {
	Mode           string `hcl:"mode,optional"`
	MaxConcurrency int    `hcl:"max_concurrency"`
	FailFast       bool   `hcl:"fail_fast,optional"`
	Timeout        int64  `hcl:"timeout"`
}

type hclStage struct {
	ID          string            `hcl:"id,label"`
	Type        string            `hcl:"type"`
	DependsOn   []string          `hcl:"depends_on,optional"`
	Timeout     int64             `hcl:"timeout"`
	SuccessRate float64           `hcl:"success_rate"`
	Duration    *hclDuration      `hcl:"duration,block"`
	Config      map[string]string `hcl:"config,optional"`
}

type hclDuration struct {
	Min            int64   `hcl:"min"`
	Max            int64   `hcl:"max"`
	BaseMultiplier float64 `hcl:"base_multiplier,optional"`
}

// hclEvalContext exposes the simulation mode names as constants, so a
// definition can write `mode = sim.realistic` instead of a bare string.
func hclEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"sim": cty.ObjectVal(map[string]cty.Value{
				"fast":          cty.StringVal(string(ModeFast)),
				"realistic":     cty.StringVal(string(ModeRealistic)),
				"chaotic":       cty.StringVal(string(ModeChaotic)),
				"deterministic": cty.StringVal(string(ModeDeterministic)),
			}),
		},
	}
}

// DecodeHCL parses an HCL pipeline definition. The filename is only used in
// diagnostics.
func DecodeHCL(filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL pipeline definition: %w", diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, hclEvalContext(), &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding HCL pipeline definition: %w", diags)
	}
	if root.Pipeline == nil {
		return nil, fmt.Errorf("decoding HCL pipeline definition: missing pipeline block")
	}

	p := root.Pipeline
	cfg := &Config{
		ID:          p.ID,
		Name:        p.Name,
		Version:     p.Version,
		Environment: p.Environment,
	}
	if p.Settings != nil {
		cfg.Settings = Settings{
			Mode:           SimulationMode(p.Settings.Mode),
			MaxConcurrency: p.Settings.MaxConcurrency,
			FailFast:       p.Settings.FailFast,
			Timeout:        p.Settings.Timeout,
		}
	}
	for _, hs := range p.Stages {
		stage := Stage{
			ID:           hs.ID,
			Type:         StageType(hs.Type),
			Dependencies: hs.DependsOn,
			Timeout:      hs.Timeout,
			SuccessRate:  hs.SuccessRate,
			Config:       hs.Config,
		}
		if hs.Duration != nil {
			stage.Duration = DurationRange{
				Min:            hs.Duration.Min,
				Max:            hs.Duration.Max,
				BaseMultiplier: hs.Duration.BaseMultiplier,
			}
		}
		cfg.Stages = append(cfg.Stages, stage)
	}

	cfg.Normalize()
	return cfg, nil
}
