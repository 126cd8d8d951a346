package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

func TestDecodeDockerBuildParamsDefaults(t *testing.T) {
	p := decodeDockerBuildParams(pipeline.Stage{ID: "build"})

	assert.Equal(t, "build:latest", p.Image)
	assert.Equal(t, "alpine:3.20", p.BaseImage)
}

func TestDecodeDockerBuildParamsSanitizesValues(t *testing.T) {
	p := decodeDockerBuildParams(pipeline.Stage{
		ID:     "build",
		Config: map[string]string{"image": "app:1.0\nfake", "baseImage": "golang:1.24"},
	})

	assert.Equal(t, "app:1.0fake", p.Image)
	assert.Equal(t, "golang:1.24", p.BaseImage)
}

func TestDecodeParamsIgnoreUnknownKeys(t *testing.T) {
	p := decodeDeployParams(pipeline.Stage{
		ID:     "ship",
		Config: map[string]string{"target": "production", "bogus": "value"},
	})

	assert.Equal(t, "production", p.Target)
}

func TestDecodeParamsEmptyValueFallsBack(t *testing.T) {
	p := decodeUnitTestsParams(pipeline.Stage{
		ID:     "tests",
		Config: map[string]string{"suite": "!!!"},
	})

	// A value that sanitizes to nothing is treated as absent.
	assert.Equal(t, "default", p.Suite)
	assert.Equal(t, "42", p.TestCount)
}
