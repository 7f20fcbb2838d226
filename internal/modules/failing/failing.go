// Package failing provides a reference Module that fails on a chosen
// call number, for exercising the scheduler's error-propagation path.
package failing

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

// Module succeeds on every call except FailOn, which it fails
// (1-indexed: FailOn == 1 fails on the first call). FailOn == 0 means
// never fail.
type Module struct {
	name      string
	strandKey strand.Key
	hasStrand bool
	stats     module.Stats

	FailOn uint64
}

// New creates a failing module named name that fails on its failOn'th
// call (1-indexed).
func New(name string, strandKey string, failOn uint64) *Module {
	m := &Module{name: name, FailOn: failOn}
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
	call := m.stats.NCalls() + 1
	if m.FailOn != 0 && call == m.FailOn {
		return fmt.Errorf("failing %s: intentional failure on call %d", m.name, call)
	}
	return nil
}
