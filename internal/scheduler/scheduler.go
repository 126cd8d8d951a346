package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/codeflow-sentinel/pipesim/internal/ctxlog"
	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
	"github.com/codeflow-sentinel/pipesim/internal/simulate"
)

// Scheduler dispatches the stages of each level to the simulator.
type Scheduler struct {
	sim *simulate.Simulator
}

// New creates a Scheduler that executes stages through the given simulator.
func New(sim *simulate.Simulator) *Scheduler {
	return &Scheduler{sim: sim}
}

// RunLevels executes every level in order and returns one Execution per
// stage of the pipeline, in canonical order. Stage failures never surface as
// errors; they are recorded on the execution and, when failFast is set,
// convert all stages of later levels into skips. Cancelling the context
// stops the run between levels; stages of the interrupted level run to
// completion, everything after is skipped.
func (s *Scheduler) RunLevels(ctx context.Context, cfg *pipeline.Config, levels [][]string, env map[string]string, artifacts simulate.ArtifactRegistry) []pipeline.Execution {
	logger := ctxlog.FromContext(ctx)

	completed := make(map[string]bool, len(cfg.Stages))
	var results []pipeline.Execution

	for li, level := range levels {
		if err := ctx.Err(); err != nil {
			logger.Warn("run canceled, skipping remaining levels", "level", li)
			results = append(results, skipAll(levels[li:], "Skipped: run canceled before this stage was dispatched")...)
			break
		}

		logger.Info("dispatching level", "level", li, "stages", len(level))
		results = append(results, s.runLevel(ctx, cfg, level, env, completed, artifacts)...)

		levelFailed := false
		for _, exec := range results[len(results)-len(level):] {
			switch exec.Status {
			case pipeline.StatusSuccess, pipeline.StatusFailed:
				completed[exec.ID] = true
			}
			if exec.Status == pipeline.StatusFailed {
				levelFailed = true
			}
		}

		if levelFailed && cfg.Settings.FailFast {
			logger.Warn("fail-fast triggered, skipping downstream levels", "failed_level", li)
			results = append(results, skipAll(levels[li+1:],
				fmt.Sprintf("Skipped: fail-fast after a failure in level %d", li))...)
			break
		}
	}

	return results
}

// runLevel dispatches one level's stages with at most maxConcurrency running
// at once. Every stage of an over-sized level still executes; excess stages
// queue for a free slot rather than being dropped. Writes land at fixed
// indices, which preserves canonical order regardless of completion order.
func (s *Scheduler) runLevel(ctx context.Context, cfg *pipeline.Config, level []string, env map[string]string, completed map[string]bool, artifacts simulate.ArtifactRegistry) []pipeline.Execution {
	logger := ctxlog.FromContext(ctx)

	execs := make([]pipeline.Execution, len(level))
	sem := make(chan struct{}, cfg.Settings.MaxConcurrency)
	var wg sync.WaitGroup

	for i, id := range level {
		stage, ok := cfg.StageByID(id)
		if !ok || !s.depsSatisfied(stage, completed) {
			// Defensive re-check; the resolver's ordering guarantee makes
			// this unreachable for a valid config.
			logger.Warn("stage not runnable in its level, recording skip", "stage", id)
			execs[i] = skipExecution(id, "Skipped: dependencies were not completed")
			continue
		}

		wg.Add(1)
		go func(i int, stage pipeline.Stage) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			logger.Debug("stage dispatched", "stage", stage.ID)
			execs[i] = s.sim.Simulate(ctx, stage, cfg.Settings, env, artifacts)
		}(i, stage)
	}

	wg.Wait()
	return execs
}

func (s *Scheduler) depsSatisfied(stage pipeline.Stage, completed map[string]bool) bool {
	for _, dep := range stage.Dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

func skipExecution(id, reason string) pipeline.Execution {
	return pipeline.Execution{
		ID:     id,
		Status: pipeline.StatusSkipped,
		Logs:   []string{reason},
	}
}

func skipAll(levels [][]string, reason string) []pipeline.Execution {
	var execs []pipeline.Execution
	for _, level := range levels {
		for _, id := range level {
			execs = append(execs, skipExecution(id, reason))
		}
	}
	return execs
}
