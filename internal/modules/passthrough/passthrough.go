// Package passthrough provides a reference Module that moves one token
// from its single incoming edge to its single outgoing edge per firing,
// optionally transforming it along the way.
package passthrough

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

// Module relays a single token from its one incoming edge to its one
// outgoing edge, applying Transform if set.
type Module struct {
	name      string
	strandKey strand.Key
	hasStrand bool
	stats     module.Stats

	// Transform, if non-nil, maps the incoming value to the value
	// pushed downstream. The identity function is used if nil.
	Transform func(value any) any
}

// New creates a passthrough module named name.
func New(name string, strandKey string) *Module {
	m := &Module{name: name}
	if strandKey != "" {
		m.strandKey = strandKey
		m.hasStrand = true
	}
	return m
}

func (m *Module) Name() string { return m.name }

func (m *Module) Strand() (strand.Key, bool) { return m.strandKey, m.hasStrand }

func (m *Module) Stats() *module.Stats { return &m.stats }

func (m *Module) Process(ctx context.Context, g module.Graph, vertex module.VertexID) error {
	in := g.Incoming(vertex)
	out := g.Outgoing(vertex)
	if len(in) != 1 || len(out) != 1 {
		return fmt.Errorf("passthrough %s: requires exactly one incoming and one outgoing edge, got %d/%d", m.name, len(in), len(out))
	}

	src, ok := in[0].(*edge.Buffer)
	if !ok {
		return fmt.Errorf("passthrough %s: incoming edge is not an *edge.Buffer", m.name)
	}
	dst, ok := out[0].(*edge.Buffer)
	if !ok {
		return fmt.Errorf("passthrough %s: outgoing edge is not an *edge.Buffer", m.name)
	}

	value, ok := src.Pop()
	if !ok {
		return fmt.Errorf("passthrough %s: incoming edge reported ready but was empty", m.name)
	}
	if m.Transform != nil {
		value = m.Transform(value)
	}
	if !dst.Push(value) {
		return fmt.Errorf("passthrough %s: outgoing edge is full", m.name)
	}
	return nil
}
