// Package dispatch provides execution-context routing helpers: run a task on
// a target context synchronously when the caller is already there, otherwise
// hand it off and return immediately.
//
// Two executor implementations are provided. Loop is a serial executor that
// models the main context of a process: tasks run one at a time, in
// submission order, on a single goroutine. Pool is a background executor
// whose admission is classed by quality of service; tasks handed to it run
// on whatever goroutine the runtime schedules, with no ordering guarantee.
package dispatch

import "sync"

// Executor is an execution context onto which tasks can be submitted.
// Implementations must be safe for concurrent use.
type Executor interface {
	// Submit enqueues fn to run on the executor. It does not wait for fn to
	// run.
	Submit(fn func())

	// Running reports whether the calling goroutine is currently executing
	// a task on this executor.
	Running() bool
}

// Do runs fn on ex. When the caller is already on ex the task runs inline
// and Do returns after it completes; otherwise fn is enqueued and Do returns
// immediately. Ordering relative to other submitted tasks is FIFO per serial
// executor only; the background pool inherits whatever the runtime scheduler
// does.
func Do(ex Executor, fn func()) {
	if ex.Running() {
		fn()
		return
	}
	ex.Submit(fn)
}

var (
	mainOnce sync.Once
	mainLoop *Loop

	globalOnce sync.Once
	globalPool *Pool
)

// Main returns the process-wide main loop, starting it on first use.
func Main() *Loop {
	mainOnce.Do(func() {
		mainLoop = NewLoop("main")
	})
	return mainLoop
}

// Global returns the process-wide background pool, starting it on first use
// with default per-class limits.
func Global() *Pool {
	globalOnce.Do(func() {
		globalPool = NewPool(PoolConfig{Name: "global"})
	})
	return globalPool
}

// OnMain runs fn on the process main loop: inline and synchronously when the
// caller is already on it, otherwise enqueued FIFO.
func OnMain(fn func()) {
	Do(Main(), fn)
}

// OnGlobal runs fn on the process background pool at the given quality of
// service: inline when the caller is already a pool task, otherwise handed
// off to the runtime scheduler.
func OnGlobal(qos QoS, fn func()) {
	Do(Global().Class(qos), fn)
}
