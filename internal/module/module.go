// Package module defines the vertex contract the scheduler drives, and
// the per-vertex call statistics it accumulates along the way.
package module

import (
	"context"
	"sync/atomic"

	"github.com/vk/flowgrid/internal/strand"
)

// Module is one vertex in a graph. Process is called once per firing;
// it may read its incoming edges and write its outgoing edges through
// the Graph handle, but the scheduler never inspects edge contents
// itself — only their sizes.
type Module interface {
	// Name identifies the module for logging and the stats report.
	Name() string

	// Strand returns the key this module must be serialized against,
	// and whether one is set at all. A module with no strand is
	// dispatched to the work queue directly.
	Strand() (strand.Key, bool)

	// Stats returns this module's mutable call counters.
	Stats() *Stats

	// Process performs one firing. vertex identifies which vertex in g
	// this call corresponds to, letting a single Module value be reused
	// across multiple vertices if desired.
	Process(ctx context.Context, g Graph, vertex VertexID) error
}

// VertexID names a vertex within a Graph. Concrete graphs are free to
// choose any comparable representation; the scheduler treats it opaquely.
type VertexID = any

// Graph is the read-only view of a dataflow graph the scheduler and its
// modules operate over.
type Graph interface {
	// Vertices lists every vertex in the graph, in no particular order.
	Vertices() []VertexID

	// Incoming returns the edges feeding into v.
	Incoming(v VertexID) []Edge

	// Outgoing returns the edges leaving v.
	Outgoing(v VertexID) []Edge

	// ModuleAt returns the module bound to v.
	ModuleAt(v VertexID) Module
}

// Edge is the scheduler's view of a single-token buffer: only its
// occupancy is observable from the scheduling layer. Modules themselves
// may hold a richer handle (see package edge) to actually move data.
type Edge interface {
	// Size reports how many tokens currently occupy the edge.
	Size() int
}

// Stats accumulates a module's call count and cumulative CPU ticks
// across a run. All fields are accessed with sync/atomic so the pool
// driver can read a consistent snapshot from the reporting goroutine
// after every invoker has quiesced, without taking a lock.
type Stats struct {
	ncalls     atomic.Uint64
	totalTicks atomic.Int64
}

// RecordCall adds one call and ticks of CPU time to the running totals,
// and returns the call count after the increment.
func (s *Stats) RecordCall(ticks int64) uint64 {
	s.totalTicks.Add(ticks)
	return s.ncalls.Add(1)
}

// NCalls returns the number of completed calls so far.
func (s *Stats) NCalls() uint64 {
	return s.ncalls.Load()
}

// TotalTicks returns the cumulative CPU ticks spent in Process so far.
func (s *Stats) TotalTicks() int64 {
	return s.totalTicks.Load()
}

// Reset zeroes the call count and CPU ticks, so a module's counters
// start fresh at the top of a new run.
func (s *Stats) Reset() {
	s.ncalls.Store(0)
	s.totalTicks.Store(0)
}
