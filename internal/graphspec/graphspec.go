// Package graphspec provides a concrete implementation of the dataflow
// graph the scheduler operates over: vertices bound to modules, and
// directed edges between them. A Graph takes no locks: it is built with
// AddVertex/Connect before a run and only read while the run is going.
package graphspec

import (
	"fmt"

	"github.com/vk/flowgrid/internal/module"
)

// Graph is a directed graph of named vertices, each bound to a module,
// connected by edges that expose only their occupancy to the scheduler.
type Graph struct {
	vertices   map[module.VertexID]module.Module
	incoming   map[module.VertexID][]module.Edge
	outgoing   map[module.VertexID][]module.Edge
	dependents map[module.VertexID][]module.VertexID
	order      []module.VertexID
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		vertices:   make(map[module.VertexID]module.Module),
		incoming:   make(map[module.VertexID][]module.Edge),
		outgoing:   make(map[module.VertexID][]module.Edge),
		dependents: make(map[module.VertexID][]module.VertexID),
	}
}

// AddVertex binds m to vertex id. Adding the same id twice replaces the
// bound module but keeps any edges already attached to it.
func (g *Graph) AddVertex(id module.VertexID, m module.Module) {
	if _, ok := g.vertices[id]; !ok {
		g.order = append(g.order, id)
	}
	g.vertices[id] = m
}

// Connect attaches e as an outgoing edge of from and an incoming edge of
// to. Both vertices must already have been added. An edge between a
// vertex and itself is rejected, matching the acyclic single-token
// contract spec.md assumes at the edge level.
func (g *Graph) Connect(from, to module.VertexID, e module.Edge) error {
	if from == to {
		return fmt.Errorf("graphspec: self-referential edge not allowed: %v", from)
	}
	if _, ok := g.vertices[from]; !ok {
		return fmt.Errorf("graphspec: source vertex not found: %v", from)
	}
	if _, ok := g.vertices[to]; !ok {
		return fmt.Errorf("graphspec: destination vertex not found: %v", to)
	}

	g.outgoing[from] = append(g.outgoing[from], e)
	g.incoming[to] = append(g.incoming[to], e)
	g.dependents[from] = append(g.dependents[from], to)
	return nil
}

// Vertices lists every vertex in the graph, in the order they were added.
func (g *Graph) Vertices() []module.VertexID {
	out := make([]module.VertexID, len(g.order))
	copy(out, g.order)
	return out
}

// Incoming returns the edges feeding into v.
func (g *Graph) Incoming(v module.VertexID) []module.Edge {
	return g.incoming[v]
}

// Outgoing returns the edges leaving v.
func (g *Graph) Outgoing(v module.VertexID) []module.Edge {
	return g.outgoing[v]
}

// ModuleAt returns the module bound to v, or nil if v is unknown.
func (g *Graph) ModuleAt(v module.VertexID) module.Module {
	return g.vertices[v]
}

// DetectCycles reports an error naming the first vertex found to
// participate in a cycle, using the connectivity implied by edges
// (from -> to). A scheduler built on readiness rather than topological
// order tolerates cycles at runtime, but a cyclic grid is almost always
// a configuration mistake worth rejecting at load time.
func (g *Graph) DetectCycles() error {
	permanent := make(map[module.VertexID]bool)
	temporary := make(map[module.VertexID]bool)

	var visit func(v module.VertexID) error
	visit = func(v module.VertexID) error {
		if permanent[v] {
			return nil
		}
		if temporary[v] {
			return fmt.Errorf("graphspec: cycle detected involving vertex %v", v)
		}
		temporary[v] = true
		for _, next := range g.dependents[v] {
			if err := visit(next); err != nil {
				return err
			}
		}
		delete(temporary, v)
		permanent[v] = true
		return nil
	}

	for _, v := range g.order {
		if !permanent[v] {
			if err := visit(v); err != nil {
				return err
			}
		}
	}
	return nil
}
