package simulate

import (
	"fmt"
	"time"

	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

// scriptContext carries everything a log script may read or produce. Stage
// config values are read through the typed parameter structs in params.go,
// never straight off the raw map.
type scriptContext struct {
	Stage    pipeline.Stage
	Success  bool
	Env      map[string]string
	Register ArtifactRegistry
}

// envOr returns the sanitized run variable for key, or the fallback.
func (sc *scriptContext) envOr(key, fallback string) string {
	v := Sanitize(sc.Env[key])
	if v == "" {
		return fallback
	}
	return v
}

// scriptFunc renders the human-readable log script for one stage type.
type scriptFunc func(sc *scriptContext) []string

// scripts maps each recognized stage type to its log script. Unrecognized
// types fall back to genericScript.
var scripts = map[pipeline.StageType]scriptFunc{
	pipeline.StageTrigger:     triggerScript,
	pipeline.StageAIReview:    aiReviewScript,
	pipeline.StageDockerBuild: dockerBuildScript,
	pipeline.StageUnitTests:   unitTestsScript,
	pipeline.StageDeploy:      deployScript,
}

func runScript(sc *scriptContext) []string {
	if fn, ok := scripts[sc.Stage.Type]; ok {
		return fn(sc)
	}
	return genericScript(sc)
}

func triggerScript(sc *scriptContext) []string {
	p := decodeTriggerParams(sc.Stage)
	branch := sc.envOr("BRANCH", "main")
	logs := []string{
		fmt.Sprintf("Received %s event for branch %s", p.Source, branch),
		"Resolving head commit...",
	}
	if sc.Success {
		return append(logs, fmt.Sprintf("Trigger accepted, pipeline %s queued", Sanitize(sc.Stage.ID)))
	}
	return append(logs, "Trigger rejected: event payload failed verification")
}

func aiReviewScript(sc *scriptContext) []string {
	p := decodeAIReviewParams(sc.Stage)
	logs := []string{
		"Collecting diff for review...",
		fmt.Sprintf("Requesting review from %s (%s)", p.Provider, p.Model),
	}
	if sc.Success {
		return append(logs,
			"Review received: 0 blocking findings",
			"Posting review summary to commit status")
	}
	return append(logs, fmt.Sprintf("Review failed: %s returned an error response", p.Provider))
}

func dockerBuildScript(sc *scriptContext) []string {
	p := decodeDockerBuildParams(sc.Stage)
	logs := []string{
		fmt.Sprintf("Step 1/4 : FROM %s", p.BaseImage),
		"Step 2/4 : COPY . /app",
		"Step 3/4 : RUN make build",
		`Step 4/4 : CMD ["/app/run"]`,
	}
	if !sc.Success {
		return append(logs, "ERROR: build failed at step 3/4: make: *** [build] Error 1")
	}
	sc.Register.Register(pipeline.Artifact{
		Name:      p.Image,
		Type:      "container-image",
		Stage:     sc.Stage.ID,
		CreatedAt: time.Now().UTC(),
		Metadata:  map[string]string{"baseImage": p.BaseImage},
	})
	return append(logs,
		fmt.Sprintf("Successfully built %s", p.Image),
		fmt.Sprintf("Successfully tagged %s", p.Image))
}

func unitTestsScript(sc *scriptContext) []string {
	p := decodeUnitTestsParams(sc.Stage)
	logs := []string{
		fmt.Sprintf("Running test suite %q", p.Suite),
		fmt.Sprintf("Collected %s tests", p.TestCount),
	}
	if sc.Success {
		return append(logs, fmt.Sprintf("ok  	%s tests passed", p.TestCount))
	}
	return append(logs, fmt.Sprintf("FAIL: assertions failed in suite %q", p.Suite))
}

func deployScript(sc *scriptContext) []string {
	p := decodeDeployParams(sc.Stage)
	logs := []string{
		fmt.Sprintf("Deploying to %s", p.Target),
		"Rolling update started (2 replicas)",
	}
	if sc.Success {
		return append(logs, fmt.Sprintf("Deployment to %s healthy", p.Target))
	}
	return append(logs, fmt.Sprintf("Deployment to %s unhealthy, rollback initiated", p.Target))
}

func genericScript(sc *scriptContext) []string {
	first := fmt.Sprintf("Executing stage %s", Sanitize(sc.Stage.ID))
	if sc.Success {
		return []string{first, "Stage completed"}
	}
	return []string{first, "Stage failed"}
}
