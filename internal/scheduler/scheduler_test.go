package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/graphspec"
	"github.com/vk/flowgrid/internal/modules/failing"
	"github.com/vk/flowgrid/internal/modules/passthrough"
	"github.com/vk/flowgrid/internal/modules/sink"
	"github.com/vk/flowgrid/internal/modules/source"
	"github.com/vk/flowgrid/internal/stats"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(bytesDiscard{}, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

type bytesDiscard struct{}

func (bytesDiscard) Write(p []byte) (int, error) { return len(p), nil }

func TestPool_SingleSourceRunsNCalls(t *testing.T) {
	g := graphspec.New()
	src := source.New("src", "")
	g.AddVertex("src", src)

	p := New(g)
	p.Stdout = &bytes.Buffer{}

	if err := p.ExecuteN(testContext(), 2, 5); err != nil {
		t.Fatalf("ExecuteN failed: %v", err)
	}
	if src.Stats().NCalls() != 5 {
		t.Fatalf("expected 5 calls, got %d", src.Stats().NCalls())
	}
}

func TestPool_SecondRunStartsWithFreshStats(t *testing.T) {
	g := graphspec.New()
	src := source.New("src", "")
	g.AddVertex("src", src)

	p := New(g)
	p.Stdout = &bytes.Buffer{}

	if err := p.ExecuteN(testContext(), 2, 5); err != nil {
		t.Fatalf("first ExecuteN failed: %v", err)
	}
	if src.Stats().NCalls() != 5 {
		t.Fatalf("expected 5 calls after first run, got %d", src.Stats().NCalls())
	}

	if err := p.ExecuteN(testContext(), 2, 3); err != nil {
		t.Fatalf("second ExecuteN failed: %v", err)
	}
	if src.Stats().NCalls() != 3 {
		t.Fatalf("expected second run to start from zero and report 3 calls, got %d", src.Stats().NCalls())
	}
}

func TestPool_LinearChainRunsNCalls(t *testing.T) {
	g := graphspec.New()
	var mu sync.Mutex
	var collected []any

	srcM := source.New("a", "")
	passM := passthrough.New("b", "")
	sinkM := sink.New("c", "")
	sinkM.Collect = func(v any) {
		mu.Lock()
		collected = append(collected, v)
		mu.Unlock()
	}

	g.AddVertex("a", srcM)
	g.AddVertex("b", passM)
	g.AddVertex("c", sinkM)
	mustConnect(t, g, "a", "b", edge.NewBuffer(1))
	mustConnect(t, g, "b", "c", edge.NewBuffer(1))

	p := New(g)
	p.Stdout = &bytes.Buffer{}

	if err := p.ExecuteN(testContext(), 2, 10); err != nil {
		t.Fatalf("ExecuteN failed: %v", err)
	}
	if srcM.Stats().NCalls() != 10 {
		t.Fatalf("expected source to fire 10 times, got %d", srcM.Stats().NCalls())
	}
	if sinkM.Stats().NCalls() != 10 {
		t.Fatalf("expected sink to fire 10 times, got %d", sinkM.Stats().NCalls())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(collected) != 10 {
		t.Fatalf("expected sink to collect 10 values, got %d", len(collected))
	}
}

func TestPool_DiamondGraph_NThreadsDoesNotChangeNCalls(t *testing.T) {
	for _, nthreads := range []int{1, 4} {
		g := graphspec.New()
		srcM := source.New("a", "")
		leftM := passthrough.New("b", "")
		rightM := passthrough.New("c", "")
		joinM := sink.New("d", "")

		g.AddVertex("a", srcM)
		g.AddVertex("b", leftM)
		g.AddVertex("c", rightM)
		g.AddVertex("d", joinM)

		// a->b, a->c, b->d, c->d: a real diamond join. d only becomes
		// ready once both b and c have produced, and a can't refire
		// until both its outgoing edges have drained.
		mustConnect(t, g, "a", "b", edge.NewBuffer(1))
		mustConnect(t, g, "a", "c", edge.NewBuffer(1))
		mustConnect(t, g, "b", "d", edge.NewBuffer(1))
		mustConnect(t, g, "c", "d", edge.NewBuffer(1))

		p := New(g)
		p.Stdout = &bytes.Buffer{}

		if err := p.ExecuteN(testContext(), nthreads, 3); err != nil {
			t.Fatalf("nthreads=%d: ExecuteN failed: %v", nthreads, err)
		}
		if srcM.Stats().NCalls() != 3 {
			t.Fatalf("nthreads=%d: expected a.ncalls=3, got %d", nthreads, srcM.Stats().NCalls())
		}
		if leftM.Stats().NCalls() != 3 {
			t.Fatalf("nthreads=%d: expected b.ncalls=3, got %d", nthreads, leftM.Stats().NCalls())
		}
		if rightM.Stats().NCalls() != 3 {
			t.Fatalf("nthreads=%d: expected c.ncalls=3, got %d", nthreads, rightM.Stats().NCalls())
		}
		if joinM.Stats().NCalls() != 3 {
			t.Fatalf("nthreads=%d: expected d.ncalls=3, got %d", nthreads, joinM.Stats().NCalls())
		}
	}
}

func TestPool_ModuleFailure_PropagatesError(t *testing.T) {
	g := graphspec.New()
	f := failing.New("f", "", 3)
	g.AddVertex("f", f)

	p := New(g)
	p.Stdout = &bytes.Buffer{}

	err := p.Execute(testContext(), 2)
	if err == nil {
		t.Fatal("expected Execute to return the module's error")
	}
	if f.Stats().NCalls() != 2 {
		t.Fatalf("expected exactly 2 successful calls before the failure, got %d", f.Stats().NCalls())
	}
}

func TestPool_Execute_StopsOnContextCancel(t *testing.T) {
	g := graphspec.New()
	src := source.New("src", "")
	g.AddVertex("src", src)

	p := New(g)
	p.Stdout = &bytes.Buffer{}

	ctx, cancel := context.WithTimeout(testContext(), 50*time.Millisecond)
	defer cancel()

	err := p.Execute(ctx, 2)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if src.Stats().NCalls() == 0 {
		t.Fatal("expected at least one call before cancellation")
	}
}

func TestPool_StrandSerializesFirings(t *testing.T) {
	g := graphspec.New()
	a := source.New("a", "io")
	b := source.New("b", "io")
	g.AddVertex("a", a)
	g.AddVertex("b", b)

	// source.Process only calls Next when it has an outgoing edge, so
	// each source feeds its own sink.
	g.AddVertex("as", sink.New("as", ""))
	g.AddVertex("bs", sink.New("bs", ""))
	mustConnect(t, g, "a", "as", edge.NewBuffer(1))
	mustConnect(t, g, "b", "bs", edge.NewBuffer(1))

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	track := func(uint64) any {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	}
	a.Next = track
	b.Next = track

	p := New(g)
	p.Stdout = &bytes.Buffer{}

	if err := p.ExecuteN(testContext(), 4, 25); err != nil {
		t.Fatalf("ExecuteN failed: %v", err)
	}
	if maxInFlight > 1 {
		t.Fatalf("expected strand to serialize a and b, observed %d concurrent firings", maxInFlight)
	}
}

type failingSink struct{ calls int }

func (f *failingSink) Publish(context.Context, stats.Report) error {
	f.calls++
	return errors.New("sink unreachable")
}

func TestPool_FailingTelemetrySinkDoesNotFailTheRun(t *testing.T) {
	g := graphspec.New()
	src := source.New("src", "")
	g.AddVertex("src", src)

	p := New(g)
	p.Stdout = &bytes.Buffer{}
	sink := &failingSink{}
	p.AddSink(sink)

	if err := p.ExecuteN(testContext(), 2, 5); err != nil {
		t.Fatalf("expected a clean run despite a failing sink, got %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("expected the failing sink to be published to exactly once, got %d", sink.calls)
	}
}

func mustConnect(t *testing.T, g *graphspec.Graph, from, to string, e *edge.Buffer) {
	t.Helper()
	if err := g.Connect(from, to, e); err != nil {
		t.Fatalf("Connect(%s, %s) failed: %v", from, to, err)
	}
}
