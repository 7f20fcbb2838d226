package passthrough

import (
	"context"
	"testing"

	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/graphspec"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

func TestPassthrough_AppliesTransform(t *testing.T) {
	m := New("p", "")
	m.Transform = func(v any) any { return v.(int) * 2 }

	g := graphspec.New()
	g.AddVertex("a", noop("a"))
	g.AddVertex("p", m)
	g.AddVertex("b", noop("b"))

	in := edge.NewBuffer(1)
	out := edge.NewBuffer(1)
	if err := g.Connect("a", "p", in); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect("p", "b", out); err != nil {
		t.Fatal(err)
	}
	in.Push(21)

	if err := m.Process(context.Background(), g, "p"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	v, ok := out.Pop()
	if !ok || v.(int) != 42 {
		t.Fatalf("expected 42 on the outgoing edge, got %v (ok=%v)", v, ok)
	}
}

func TestPassthrough_NilTransformIsIdentity(t *testing.T) {
	m := New("p", "")
	g := graphspec.New()
	g.AddVertex("a", noop("a"))
	g.AddVertex("p", m)
	g.AddVertex("b", noop("b"))

	in := edge.NewBuffer(1)
	out := edge.NewBuffer(1)
	if err := g.Connect("a", "p", in); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect("p", "b", out); err != nil {
		t.Fatal(err)
	}
	in.Push("unchanged")

	if err := m.Process(context.Background(), g, "p"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	v, ok := out.Pop()
	if !ok || v != "unchanged" {
		t.Fatalf("expected identity passthrough, got %v (ok=%v)", v, ok)
	}
}

func TestPassthrough_RequiresExactlyOneInAndOneOut(t *testing.T) {
	m := New("p", "")
	g := graphspec.New()
	g.AddVertex("a", noop("a"))
	g.AddVertex("p", m)
	g.AddVertex("b", noop("b"))
	g.AddVertex("c", noop("c"))

	if err := g.Connect("a", "p", edge.NewBuffer(1)); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect("p", "b", edge.NewBuffer(1)); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect("p", "c", edge.NewBuffer(1)); err != nil {
		t.Fatal(err)
	}

	if err := m.Process(context.Background(), g, "p"); err == nil {
		t.Fatal("expected an error when outgoing edge count is not exactly one")
	}
}

type noop string

func (n noop) Name() string               { return string(n) }
func (n noop) Strand() (strand.Key, bool) { return nil, false }
func (n noop) Stats() *module.Stats       { return &module.Stats{} }
func (n noop) Process(context.Context, module.Graph, module.VertexID) error {
	return nil
}
