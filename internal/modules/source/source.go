// Package source provides a reference Module that pushes one token onto
// each of its outgoing edges per firing, for demos and tests that need a
// vertex with no incoming edges to drive a graph.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

// Module is a source vertex: on every firing it pushes the next value
// produced by Next onto each outgoing edge.
type Module struct {
	name      string
	strandKey strand.Key
	hasStrand bool
	stats     module.Stats

	// Next produces the value to push on each firing. If nil, the
	// firing's own call count is pushed.
	Next func(ncalls uint64) any
}

// New creates a source module named name. strandKey may be the zero value
// ("") to leave the module unserialized.
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
	out := g.Outgoing(vertex)
	if len(out) == 0 {
		ctxlog.FromContext(ctx).LogAttrs(ctx, slog.LevelDebug, "source fired with no outgoing edges", slog.String("module", m.name))
		return nil
	}

	value := any(m.stats.NCalls())
	if m.Next != nil {
		value = m.Next(m.stats.NCalls())
	}

	for _, e := range out {
		b, ok := e.(*edge.Buffer)
		if !ok {
			return fmt.Errorf("source %s: outgoing edge is not an *edge.Buffer", m.name)
		}
		if !b.Push(value) {
			return fmt.Errorf("source %s: outgoing edge is full", m.name)
		}
	}
	return nil
}
