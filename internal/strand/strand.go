// Package strand provides opaque mutual-exclusion keys and a registry of
// per-key serial executors layered on top of a shared work queue.
//
// A strand guarantees that two tasks posted under the same key never run
// concurrently, while imposing no ordering across distinct keys. It is
// implemented as a per-key FIFO plus a single "dispatched" flag, matching
// the design sketched in the scheduler's strand-executor notes: posting
// enqueues the task, and if no task from this strand is currently running,
// a thunk is pushed onto the shared queue to drain the strand's FIFO one
// task at a time.
package strand

import "sync"

// Key is an opaque, hashable, comparable value identifying a strand.
// Any Go value usable as a map key works; modules typically use a string.
type Key any

// Poster is the subset of the work queue a strand needs: the ability to
// post a closure for later execution by some worker.
type Poster interface {
	Post(task func())
}

// executor serializes tasks posted under one strand key onto a shared queue.
type executor struct {
	queue      Poster
	mu         sync.Mutex
	pending    []func()
	dispatched bool
}

func newExecutor(queue Poster) *executor {
	return &executor{queue: queue}
}

// Post enqueues task for this strand. If the strand is idle, a drain thunk
// is posted to the shared queue; otherwise the task waits behind whatever
// is already running or queued for this strand.
func (e *executor) Post(task func()) {
	e.mu.Lock()
	e.pending = append(e.pending, task)
	shouldDispatch := !e.dispatched
	if shouldDispatch {
		e.dispatched = true
	}
	e.mu.Unlock()

	if shouldDispatch {
		e.queue.Post(e.drainOne)
	}
}

// drainOne runs the next pending task for this strand, then either posts
// itself again (more work queued) or clears the dispatched flag (idle).
func (e *executor) drainOne() {
	e.mu.Lock()
	task := e.pending[0]
	e.pending = e.pending[1:]
	e.mu.Unlock()

	task()

	e.mu.Lock()
	more := len(e.pending) > 0
	if !more {
		e.dispatched = false
	}
	e.mu.Unlock()

	if more {
		e.queue.Post(e.drainOne)
	}
}

// Registry maps strand keys to their lazily-created serial executor,
// caching executors for the lifetime of one scheduler run. It is safe for
// concurrent use by worker goroutines.
type Registry struct {
	queue Poster

	mu        sync.Mutex
	executors map[Key]*executor
}

// NewRegistry creates a strand registry that dispatches drained tasks onto queue.
func NewRegistry(queue Poster) *Registry {
	return &Registry{
		queue:     queue,
		executors: make(map[Key]*executor),
	}
}

// Post runs task serialized against every other task posted under the same
// key, via the registry's shared work queue.
func (r *Registry) Post(key Key, task func()) {
	r.mu.Lock()
	ex, ok := r.executors[key]
	if !ok {
		ex = newExecutor(r.queue)
		r.executors[key] = ex
	}
	r.mu.Unlock()

	ex.Post(task)
}
