// Package invoker drives a single graph vertex: it watches readiness,
// dispatches a firing (directly or through a strand), times the call,
// and decides whether to watch again. This is the Go rendering of the
// scheduler's per-vertex driver: check readiness, fire, repeat until the
// respawn policy says stop or a module reports an error.
package invoker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/respawn"
	"github.com/vk/flowgrid/internal/strand"
)

// Poster is the work queue capability an invoker needs: the ability to
// post a closure for later execution by some worker goroutine.
type Poster interface {
	Post(task func())
}

// Invoker drives one vertex of a graph until its respawn policy says
// stop or its module reports an error.
type Invoker struct {
	ctx     context.Context
	vertex  module.VertexID
	g       module.Graph
	m       module.Module
	policy  respawn.Policy
	work    Poster
	strands *strand.Registry

	onError func(error)
	onDone  func()
	done    sync.Once
}

// New creates an Invoker for vertex within g, using policy to decide
// when to stop respawning. work is the shared work queue new check/fire
// tasks are posted to; strands is the registry used to serialize
// firings for modules that declare a strand key. onError is called at
// most once, the first time Process returns a non-nil error. onDone is
// called exactly once, when the invoker permanently stops respawning
// (whether due to the policy or an error).
func New(ctx context.Context, vertex module.VertexID, g module.Graph, policy respawn.Policy, work Poster, strands *strand.Registry, onError func(error), onDone func()) *Invoker {
	return &Invoker{
		ctx:     ctx,
		vertex:  vertex,
		g:       g,
		m:       g.ModuleAt(vertex),
		policy:  policy,
		work:    work,
		strands: strands,
		onError: onError,
		onDone:  onDone,
	}
}

// Start posts the invoker's first readiness check to the work queue.
func (inv *Invoker) Start() {
	inv.work.Post(inv.check)
}

// check evaluates whether the vertex is ready to fire. If it is, the
// firing is dispatched (through the module's strand if it has one,
// directly to the work queue otherwise); if not, check reposts itself
// so some later worker tries again rather than blocking on readiness.
func (inv *Invoker) check() {
	if inv.ctx.Err() != nil {
		inv.finish()
		return
	}

	if !inv.ready() {
		inv.work.Post(inv.check)
		return
	}

	if key, ok := inv.m.Strand(); ok {
		inv.strands.Post(key, inv.fire)
		return
	}
	inv.work.Post(inv.fire)
}

// ready reports whether every incoming edge holds a token and every
// outgoing edge is empty, per the single-token dataflow contract.
func (inv *Invoker) ready() bool {
	for _, e := range inv.g.Incoming(inv.vertex) {
		if e.Size() <= 0 {
			return false
		}
	}
	for _, e := range inv.g.Outgoing(inv.vertex) {
		if e.Size() > 0 {
			return false
		}
	}
	return true
}

// fire performs one firing: call Process, time it, record the call, and
// either repost check or stop respawning for good.
func (inv *Invoker) fire() {
	if inv.ctx.Err() != nil {
		inv.finish()
		return
	}

	start := time.Now()
	err := inv.m.Process(inv.ctx, inv.g, inv.vertex)
	ticks := time.Since(start).Nanoseconds()

	if err != nil {
		ctxlog.FromContext(inv.ctx).LogAttrs(inv.ctx, slog.LevelError, "module failed",
			slog.String("module", inv.m.Name()), slog.Any("error", err))
		inv.onError(err)
		inv.finish()
		return
	}

	ncalls := inv.m.Stats().RecordCall(ticks)

	if !inv.policy.Continue(ncalls) {
		inv.finish()
		return
	}

	inv.work.Post(inv.check)
}

// finish calls onDone exactly once, whether the invoker stopped because
// the respawn policy said so, the run was canceled, or the module
// failed. It has no effect on a second call.
func (inv *Invoker) finish() {
	inv.done.Do(inv.onDone)
}

// Abort forces the invoker into its finished state if it hasn't reached
// one already. It is used to unblock a pool-wide shutdown when another
// vertex has failed and this invoker's own tasks will never run again
// because the work queue has stopped accepting new posts.
func (inv *Invoker) Abort() {
	inv.finish()
}
