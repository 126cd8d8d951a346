package dag

import (
	"fmt"

	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
)

// CycleError is the fatal result of resolving a graph in which some stage is
// reachable from itself via dependency edges. It names one implicated stage.
type CycleError struct {
	StageID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected involving stage %q", e.StageID)
}

// FromStages builds a graph from a validated stage list. Edges point from a
// dependency to its dependent.
func FromStages(stages []pipeline.Stage) (*Graph, error) {
	g := New()
	for _, s := range stages {
		g.AddNode(s.ID)
	}
	for _, s := range stages {
		for _, dep := range s.Dependencies {
			if err := g.AddEdge(dep, s.ID); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Resolve builds the graph for the given stages and partitions it into
// execution levels. It is the one-call form of FromStages + Levels.
func Resolve(stages []pipeline.Stage) ([][]string, error) {
	g, err := FromStages(stages)
	if err != nil {
		return nil, err
	}
	return g.Levels()
}

// visit states for the depth-first traversal.
const (
	unvisited = iota
	visiting
	visited
)

// Levels returns the stages partitioned into ordered execution levels. Every
// stage appears exactly once, after all of its dependencies. A back-edge
// found during traversal aborts with a CycleError; no partial result is
// returned.
//
// The partition walks the topological order and starts a new level whenever
// the next stage depends on a member of the level being built, so a stage
// never shares a level with one of its dependencies. Ties are broken by
// original stage-list order, which keeps the result reproducible.
func (g *Graph) Levels() ([][]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	state := make(map[string]int, len(g.nodes))
	sorted := make([]string, 0, len(g.nodes))

	var walk func(n *node) error
	walk = func(n *node) error {
		switch state[n.id] {
		case visited:
			return nil
		case visiting:
			return &CycleError{StageID: n.id}
		}
		state[n.id] = visiting
		for _, depID := range n.depOrder {
			if err := walk(n.deps[depID]); err != nil {
				return err
			}
		}
		state[n.id] = visited
		sorted = append(sorted, n.id)
		return nil
	}

	for _, id := range g.order {
		if err := walk(g.nodes[id]); err != nil {
			return nil, err
		}
	}

	var levels [][]string
	var current []string
	inCurrent := make(map[string]bool)

	for _, id := range sorted {
		if g.dependsOnAny(id, inCurrent) {
			levels = append(levels, current)
			current = nil
			inCurrent = make(map[string]bool)
		}
		current = append(current, id)
		inCurrent[id] = true
	}
	if len(current) > 0 {
		levels = append(levels, current)
	}

	return levels, nil
}

// dependsOnAny reports whether the node's dependency set intersects the
// given membership set. Callers hold the graph lock.
func (g *Graph) dependsOnAny(id string, members map[string]bool) bool {
	for _, depID := range g.nodes[id].depOrder {
		if members[depID] {
			return true
		}
	}
	return false
}
