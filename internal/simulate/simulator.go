package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/codeflow-sentinel/pipesim/internal/ctxlog"
	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

// ArtifactRegistry receives the synthetic artifacts a stage produces. The
// runner supplies a concurrency-safe implementation; this package never
// touches a shared map directly.
type ArtifactRegistry interface {
	Register(a pipeline.Artifact)
}

// Mode-specific duration multipliers and uniform ranges.
const (
	fastMultiplier    = 0.3
	realisticSpreadLo = 0.8
	realisticSpreadHi = 1.2
	chaoticSpreadLo   = 0.2
	chaoticSpreadHi   = 2.2
)

// Simulator computes stage outcomes from an explicitly injected random
// source. A single Simulator may be shared by concurrently dispatched
// stages; draws from the source are serialized internally.
type Simulator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay bool
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed fixes the random source, making duration and metric draws
// reproducible for a given dispatch order.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithoutDelay disables the in-process wait for each stage's simulated
// duration. Outcomes are unchanged; only wall-clock behavior differs.
func WithoutDelay() Option {
	return func(s *Simulator) { s.delay = false }
}

// New creates a Simulator. Without WithSeed the source is time-seeded.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		delay: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Simulate computes the outcome of one stage. It never panics past its own
// frame: an internal failure is converted into a failed execution carrying a
// non-recoverable execution_error. The returned record is complete and is
// not mutated afterwards.
func (s *Simulator) Simulate(ctx context.Context, stage pipeline.Stage, settings pipeline.Settings, env map[string]string, artifacts ArtifactRegistry) (exec pipeline.Execution) {
	defer func() {
		if r := recover(); r != nil {
			exec = pipeline.Execution{
				ID:     stage.ID,
				Status: pipeline.StatusFailed,
				Logs:   []string{fmt.Sprintf("[%s] internal simulation failure", stage.ID)},
				Errors: []pipeline.ErrorInfo{{
					Type:        "execution_error",
					Message:     fmt.Sprintf("internal error simulating stage: %v", r),
					Timestamp:   time.Now().UTC(),
					Recoverable: false,
					Context:     map[string]string{"stage": stage.ID},
				}},
			}
		}
	}()

	logger := ctxlog.FromContext(ctx)

	durationMS := s.duration(stage, settings.Mode)
	success := s.roll() <= stage.SuccessRate

	if s.delay {
		select {
		case <-time.After(time.Duration(durationMS) * time.Millisecond):
		case <-ctx.Done():
			// The recorded duration stays synthetic; cancellation only
			// shortens the real wait.
		}
	}

	metrics := s.stageMetrics(durationMS)
	logs := runScript(&scriptContext{
		Stage:    stage,
		Success:  success,
		Env:      env,
		Register: artifacts,
	})

	exec = pipeline.Execution{
		ID:       stage.ID,
		Duration: durationMS,
		Metrics:  &metrics,
		Logs:     logs,
	}
	if success {
		exec.Status = pipeline.StatusSuccess
		logger.Debug("stage simulation succeeded", "stage", stage.ID, "duration_ms", durationMS)
	} else {
		exec.Status = pipeline.StatusFailed
		exec.Errors = []pipeline.ErrorInfo{{
			Type:        "simulated_failure",
			Message:     fmt.Sprintf("stage %q failed its success roll (rate %.2f)", stage.ID, stage.SuccessRate),
			Timestamp:   time.Now().UTC(),
			Recoverable: true,
			Context:     map[string]string{"stage": stage.ID, "type": string(stage.Type)},
		}}
		logger.Debug("stage simulation failed", "stage", stage.ID, "duration_ms", durationMS)
	}
	return exec
}

// duration derives the synthetic duration in milliseconds: range midpoint,
// mode multiplier, base multiplier, clamped back into the range.
func (s *Simulator) duration(stage pipeline.Stage, mode pipeline.SimulationMode) float64 {
	mid := stage.Duration.Midpoint()

	var mult float64
	switch mode {
	case pipeline.ModeFast:
		mult = fastMultiplier
	case pipeline.ModeChaotic:
		mult = s.uniform(chaoticSpreadLo, chaoticSpreadHi)
	case pipeline.ModeDeterministic:
		mult = 1
	default:
		mult = s.uniform(realisticSpreadLo, realisticSpreadHi)
	}

	return stage.Duration.Clamp(mid * mult * stage.Duration.BaseMultiplier)
}

// stageMetrics draws the illustrative resource figures for an executed stage.
func (s *Simulator) stageMetrics(durationMS float64) pipeline.StageMetrics {
	return pipeline.StageMetrics{
		CPUUsage:    s.uniform(20, 80),
		MemoryUsage: s.uniform(100, 500),
		NetworkIO:   durationMS * s.uniform(0.1, 0.5),
		DiskIO:      durationMS * s.uniform(0.05, 0.3),
		Duration:    durationMS,
	}
}
