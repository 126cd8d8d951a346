// Package runner owns the top-level ExecutePipeline operation: validate the
// definition, resolve it into levels, schedule the levels, aggregate the
// metrics, and assemble the final result. The call always returns a result
// record; validation and cycle failures come back as a failed result, never
// as a panic or error to the caller.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeflow-sentinel/pipesim/internal/ctxlog"
	"github.com/codeflow-sentinel/pipesim/internal/dag"
	"github.com/codeflow-sentinel/pipesim/internal/metrics"
	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
	"github.com/codeflow-sentinel/pipesim/internal/scheduler"
	"github.com/codeflow-sentinel/pipesim/internal/simulate"
)

// Runner executes pipeline simulations. A Runner is stateless across runs
// and safe for concurrent ExecutePipeline calls; every call gets its own
// run context.
type Runner struct {
	sim *simulate.Simulator
}

// New creates a Runner backed by the given simulator.
func New(sim *simulate.Simulator) *Runner {
	return &Runner{sim: sim}
}

// ExecutePipeline runs one simulation to completion. Cancelling ctx aborts
// the run between levels; already-dispatched stages run to completion and
// everything downstream is recorded as skipped.
func (r *Runner) ExecutePipeline(ctx context.Context, cfg *pipeline.Config) *pipeline.Result {
	return r.ExecutePipelineAs(ctx, uuid.NewString(), cfg)
}

// ExecutePipelineAs runs a simulation under a caller-assigned execution ID.
// The HTTP API uses this to hand the ID back before the run finishes.
func (r *Runner) ExecutePipelineAs(ctx context.Context, executionID string, cfg *pipeline.Config) *pipeline.Result {
	logger := ctxlog.FromContext(ctx)

	if cfg == nil {
		cfg = &pipeline.Config{}
	}
	rc := newRunContext(executionID, cfg)
	logger = logger.With("executionId", executionID, "pipeline", cfg.ID)
	ctx = ctxlog.WithLogger(ctx, logger)

	rc.logf("Execution %s started for pipeline %q", executionID, cfg.ID)
	logger.Info("pipeline execution started", "stages", len(cfg.Stages))

	if err := pipeline.Validate(cfg); err != nil {
		logger.Error("pipeline definition rejected", "error", err)
		rc.logf("Validation failed: %v", err)
		return r.finish(rc, cfg, pipeline.RunFailed, nil)
	}

	levels, err := dag.Resolve(cfg.Stages)
	if err != nil {
		logger.Error("dependency resolution failed", "error", err)
		rc.logf("Dependency resolution failed: %v", err)
		return r.finish(rc, cfg, pipeline.RunFailed, nil)
	}
	rc.logf("Resolved %d stages into %d levels", len(cfg.Stages), len(levels))
	for li, level := range levels {
		rc.logf("Level %d: %v", li, level)
	}

	execs := scheduler.New(r.sim).RunLevels(ctx, cfg, levels, rc.variables, rc.artifacts)

	failures := 0
	for _, exec := range execs {
		rc.logf("Stage %s finished: %s (%.0fms)", exec.ID, exec.Status, exec.Duration)
		if exec.Status == pipeline.StatusFailed {
			failures++
		}
	}

	status := pipeline.RunSuccess
	if failures > 0 {
		if cfg.Settings.FailFast {
			status = pipeline.RunFailed
		} else {
			status = pipeline.RunPartial
		}
	}

	logger.Info("pipeline execution finished", "status", status, "failures", failures)
	return r.finish(rc, cfg, status, execs)
}

// finish stamps the end time, aggregates metrics, and seals the result.
func (r *Runner) finish(rc *runContext, cfg *pipeline.Config, status pipeline.RunStatus, execs []pipeline.Execution) *pipeline.Result {
	rc.logf("Execution %s finished with status %s", rc.executionID, status)
	return &pipeline.Result{
		ID:          uuid.NewString(),
		PipelineID:  cfg.ID,
		ExecutionID: rc.executionID,
		StartTime:   rc.startTime,
		EndTime:     time.Now().UTC(),
		Status:      status,
		Stages:      execs,
		Metrics:     metrics.Aggregate(execs),
		Artifacts:   rc.artifacts.List(),
		Config:      cfg,
		Logs:        rc.logs,
	}
}

// timestamped renders one run-log line with a wall-clock prefix.
func timestamped(format string, args ...any) string {
	return fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
