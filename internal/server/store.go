package server

import (
	"sync"
	"time"

	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

// executionState is the lifecycle of one tracked run as seen by the API.
type executionState struct {
	ExecutionID string           `json:"id"`
	PipelineID  string           `json:"pipelineId"`
	Status      string           `json:"status"`
	StartedAt   time.Time        `json:"startedAt"`
	Result      *pipeline.Result `json:"result,omitempty"`
}

// statusRunning is the only non-terminal API status; terminal statuses are
// the run statuses of pipeline.Result.
const statusRunning = "running"

// store tracks executions in memory, keyed by execution ID, preserving
// start order for the results listing. Every method is safe for concurrent
// use by handler goroutines and background runs.
type store struct {
	mu      sync.RWMutex
	entries map[string]*executionState
	order   []string
}

func newStore() *store {
	return &store{entries: make(map[string]*executionState)}
}

// begin registers a run as running before it is dispatched.
func (s *store) begin(executionID, pipelineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[executionID] = &executionState{
		ExecutionID: executionID,
		PipelineID:  pipelineID,
		Status:      statusRunning,
		StartedAt:   time.Now().UTC(),
	}
	s.order = append(s.order, executionID)
}

// complete stores the finished result and flips the status to its terminal
// value.
func (s *store) complete(executionID string, res *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[executionID]; ok {
		e.Status = string(res.Status)
		e.Result = res
	}
}

// get returns a snapshot of the tracked state for an execution ID.
func (s *store) get(executionID string) (executionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[executionID]
	if !ok {
		return executionState{}, false
	}
	return *e, true
}

// results returns all completed results, oldest first.
func (s *store) results() []*pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*pipeline.Result, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entries[id]; e.Result != nil {
			out = append(out, e.Result)
		}
	}
	return out
}
