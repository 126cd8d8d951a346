package dag

import (
	"fmt"
	"sync"
)

// Graph is a directed acyclic dependency graph over stage IDs. All
// operations on the graph are concurrency-safe. Node iteration follows
// insertion order, which is the deterministic tie-break the resolver
// guarantees downstream.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	order []string
}

// node is un-exported to enforce interaction with the graph via string IDs,
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the set of nodes this node depends on (predecessors).
	deps map[string]*node
	// depOrder preserves the order edges were added in.
	depOrder []string
	// dependents holds the set of nodes that depend on this node.
	dependents map[string]*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a new node with the given ID. If a node with the same ID
// already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from `fromID` to `toID`, meaning `toID`
// depends on `fromID`. An error is returned if either node does not exist or
// if the edge would be a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if _, ok := toNode.deps[fromID]; !ok {
		toNode.deps[fromID] = fromNode
		toNode.depOrder = append(toNode.depOrder, fromID)
	}
	fromNode.dependents[toID] = toNode

	return nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Dependencies returns the IDs the given node depends on, in edge order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	deps := make([]string, len(n.depOrder))
	copy(deps, n.depOrder)
	return deps, nil
}
