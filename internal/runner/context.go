package runner

import (
	"sync"
	"time"

	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

// ArtifactStore is the synchronized accumulator for artifacts registered by
// concurrently dispatched stages. It is the only shared mutable state inside
// one run, and Register is the only write path into it.
type ArtifactStore struct {
	mu        sync.Mutex
	artifacts []pipeline.Artifact
}

// Register appends an artifact in registration order.
func (s *ArtifactStore) Register(a pipeline.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, a)
}

// List returns a copy of the registered artifacts.
func (s *ArtifactStore) List() []pipeline.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pipeline.Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// runContext is the per-run mutable state. It is owned by exactly one
// ExecutePipeline invocation and discarded when that call returns, so
// concurrent runs never share anything.
type runContext struct {
	executionID string
	startTime   time.Time
	variables   map[string]string
	artifacts   *ArtifactStore
	logs        []string
}

func newRunContext(executionID string, cfg *pipeline.Config) *runContext {
	vars := make(map[string]string, len(cfg.Environment))
	for k, v := range cfg.Environment {
		vars[k] = v
	}
	return &runContext{
		executionID: executionID,
		startTime:   time.Now().UTC(),
		variables:   vars,
		artifacts:   &ArtifactStore{},
	}
}

// logf appends one line to the run log. Only the runner goroutine appends
// between levels, so no lock is needed here.
func (rc *runContext) logf(format string, args ...any) {
	rc.logs = append(rc.logs, timestamped(format, args...))
}
