// Package scheduler drives a graphspec.Graph to completion: a fixed
// pool of worker goroutines repeatedly fires vertices whose edges say
// they are ready, respecting strand serialization, until every vertex
// stops respawning or a module fails.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/invoker"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/queue"
	"github.com/vk/flowgrid/internal/respawn"
	"github.com/vk/flowgrid/internal/stats"
	"github.com/vk/flowgrid/internal/strand"
	"github.com/vk/flowgrid/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// Pool drives a graph's vertices to completion using a fixed worker pool.
type Pool struct {
	g      module.Graph
	sinks  []telemetry.Sink
	Stdout io.Writer
}

// New creates a Pool bound to g. The same Pool can run Execute or
// ExecuteN any number of times; each run starts from the graph's
// current edge occupancy. The stats report is printed to os.Stdout by
// default; set Stdout to redirect or silence it.
func New(g module.Graph) *Pool {
	return &Pool{g: g, Stdout: os.Stdout}
}

// AddSink registers a telemetry sink the final report is published to
// after every clean run, in addition to being printed to stdout.
func (p *Pool) AddSink(s telemetry.Sink) {
	p.sinks = append(p.sinks, s)
}

// Execute runs every vertex forever, respecting readiness and strands,
// using nthreads worker goroutines. It returns when ctx is canceled or
// a module reports an error.
func (p *Pool) Execute(ctx context.Context, nthreads int) error {
	return p.run(ctx, nthreads, func(module.VertexID) respawn.Policy {
		return respawn.Forever()
	})
}

// ExecuteN runs every vertex until it has fired ncalls times, using
// nthreads worker goroutines. It returns when every vertex has reached
// ncalls calls, ctx is canceled, or a module reports an error.
func (p *Pool) ExecuteN(ctx context.Context, nthreads int, ncalls uint64) error {
	return p.run(ctx, nthreads, func(module.VertexID) respawn.Policy {
		return respawn.Bounded(ncalls)
	})
}

func (p *Pool) run(ctx context.Context, nthreads int, policyFor func(module.VertexID) respawn.Policy) error {
	if nthreads < 1 {
		return fmt.Errorf("scheduler: nthreads must be >= 1")
	}

	logger := ctxlog.FromContext(ctx)
	vertices := p.g.Vertices()

	// Each invoker has at most one task of its own queued, plus at most
	// one strand drain task per strand, so this buffer never fills and
	// Post never blocks a worker.
	work := queue.New(nthreads*4 + 2*len(vertices))
	strands := strand.NewRegistry(work)

	for _, v := range vertices {
		p.g.ModuleAt(v).Stats().Reset()
	}

	var (
		errOnce  sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	wg.Add(len(vertices))
	failed := make(chan struct{})

	onError := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			close(failed)
			work.Stop()
		})
	}

	invokers := make([]*invoker.Invoker, 0, len(vertices))
	for _, v := range vertices {
		inv := invoker.New(ctx, v, p.g, policyFor(v), work, strands, onError, wg.Done)
		invokers = append(invokers, inv)
	}

	quiesced := make(chan struct{})
	go func() {
		wg.Wait()
		close(quiesced)
	}()
	defer func() {
		for _, inv := range invokers {
			inv.Abort()
		}
	}()

	start := time.Now()

	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < nthreads; i++ {
		eg.Go(func() error {
			work.Drain()
			return nil
		})
	}

	for _, inv := range invokers {
		inv.Start()
	}

	select {
	case <-quiesced:
	case <-failed:
	case <-egCtx.Done():
	case <-ctx.Done():
	}
	work.Stop()

	if err := eg.Wait(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "worker pool error", slog.Any("error", err))
		if firstErr == nil {
			firstErr = err
		}
	}

	elapsed := time.Since(start)

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	report := p.buildReport(vertices, nthreads, elapsed)
	if p.Stdout != nil {
		stats.Fprint(p.Stdout, report)
	}
	telemetry.PublishAll(ctx, p.sinks, report, func(s telemetry.Sink, err error) {
		logger.LogAttrs(ctx, slog.LevelWarn, "telemetry sink failed", slog.Any("error", err))
	})

	return nil
}

func (p *Pool) buildReport(vertices []module.VertexID, nthreads int, elapsed time.Duration) stats.Report {
	rows := make([]stats.VertexReport, 0, len(vertices))
	for _, v := range vertices {
		m := p.g.ModuleAt(v)
		st := m.Stats()
		rows = append(rows, stats.VertexReport{
			Name:       m.Name(),
			NCalls:     st.NCalls(),
			TotalTicks: st.TotalTicks(),
		})
	}
	return stats.Build(rows, nthreads, elapsed)
}
