package simulate

import "github.com/codeflow-sentinel/pipesim/internal/pipeline"

// Each recognized stage type owns a typed parameter struct decoded from the
// stage's free-form config map. Decoding sanitizes every value and fills in
// defaults for missing or empty keys; unknown keys are ignored.

type triggerParams struct {
	Source string
}

type aiReviewParams struct {
	Provider string
	Model    string
}

type dockerBuildParams struct {
	Image     string
	BaseImage string
}

type unitTestsParams struct {
	Suite     string
	TestCount string
}

type deployParams struct {
	Target string
}

// configValue returns the sanitized config value for key, or the fallback
// when the key is absent or sanitizes to nothing.
func configValue(cfg map[string]string, key, fallback string) string {
	v := Sanitize(cfg[key])
	if v == "" {
		return fallback
	}
	return v
}

func decodeTriggerParams(stage pipeline.Stage) triggerParams {
	return triggerParams{
		Source: configValue(stage.Config, "source", "git-push"),
	}
}

func decodeAIReviewParams(stage pipeline.Stage) aiReviewParams {
	return aiReviewParams{
		Provider: configValue(stage.Config, "provider", "openai"),
		Model:    configValue(stage.Config, "model", "gpt-4"),
	}
}

func decodeDockerBuildParams(stage pipeline.Stage) dockerBuildParams {
	return dockerBuildParams{
		Image:     configValue(stage.Config, "image", Sanitize(stage.ID)+":latest"),
		BaseImage: configValue(stage.Config, "baseImage", "alpine:3.20"),
	}
}

func decodeUnitTestsParams(stage pipeline.Stage) unitTestsParams {
	return unitTestsParams{
		Suite:     configValue(stage.Config, "suite", "default"),
		TestCount: configValue(stage.Config, "testCount", "42"),
	}
}

func decodeDeployParams(stage pipeline.Stage) deployParams {
	return deployParams{
		Target: configValue(stage.Config, "target", "staging"),
	}
}
