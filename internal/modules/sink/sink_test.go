package sink

import (
	"context"
	"testing"

	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/graphspec"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

func TestSink_CollectsFromEveryIncomingEdgeInOrder(t *testing.T) {
	m := New("snk", "")
	g := graphspec.New()
	g.AddVertex("a", noop("a"))
	g.AddVertex("b", noop("b"))
	g.AddVertex("snk", m)

	e1 := edge.NewBuffer(1)
	e2 := edge.NewBuffer(1)
	if err := g.Connect("a", "snk", e1); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect("b", "snk", e2); err != nil {
		t.Fatal(err)
	}
	e1.Push("from-a")
	e2.Push("from-b")

	var collected []any
	m.Collect = func(v any) { collected = append(collected, v) }

	if err := m.Process(context.Background(), g, "snk"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(collected) != 2 || collected[0] != "from-a" || collected[1] != "from-b" {
		t.Fatalf("expected [from-a from-b], got %v", collected)
	}
	if e1.Size() != 0 || e2.Size() != 0 {
		t.Fatalf("expected both incoming edges drained, got %d and %d", e1.Size(), e2.Size())
	}
}

func TestSink_EmptyIncomingEdgeIsAnError(t *testing.T) {
	m := New("snk", "")
	g := graphspec.New()
	g.AddVertex("a", noop("a"))
	g.AddVertex("snk", m)
	e := edge.NewBuffer(1)
	if err := g.Connect("a", "snk", e); err != nil {
		t.Fatal(err)
	}

	if err := m.Process(context.Background(), g, "snk"); err == nil {
		t.Fatal("expected an error when the incoming edge is empty")
	}
}

type noop string

func (n noop) Name() string               { return string(n) }
func (n noop) Strand() (strand.Key, bool) { return nil, false }
func (n noop) Stats() *module.Stats       { return &module.Stats{} }
func (n noop) Process(context.Context, module.Graph, module.VertexID) error {
	return nil
}
