// Package sink provides a reference Module that drains every incoming
// edge once per firing, for demos and tests that need a terminal vertex.
package sink

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

// Module is a sink vertex: on every firing it pops one token from each
// incoming edge and hands it to Collect, if set.
type Module struct {
	name      string
	strandKey strand.Key
	hasStrand bool
	stats     module.Stats

	// Collect, if non-nil, is called with each value popped off an
	// incoming edge, in edge order.
	Collect func(value any)
}

// New creates a sink module named name.
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
	for _, e := range g.Incoming(vertex) {
		b, ok := e.(*edge.Buffer)
		if !ok {
			return fmt.Errorf("sink %s: incoming edge is not an *edge.Buffer", m.name)
		}
		value, ok := b.Pop()
		if !ok {
			return fmt.Errorf("sink %s: incoming edge reported ready but was empty", m.name)
		}
		if m.Collect != nil {
			m.Collect(value)
		}
	}
	return nil
}
