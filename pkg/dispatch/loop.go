package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// DefaultLoopBacklog is the task channel capacity of a Loop. Submissions
// beyond it block the submitter until the loop catches up.
const DefaultLoopBacklog = 256

// Loop is a serial executor: tasks run one at a time, in submission order,
// on a single dedicated goroutine. It models the "main" context of a
// process.
type Loop struct {
	name  string
	tasks chan func()
	gid   atomic.Uint64
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewLoop creates a Loop and starts its goroutine.
func NewLoop(name string) *Loop {
	l := &Loop{
		name:  name,
		tasks: make(chan func(), DefaultLoopBacklog),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	l.gid.Store(goroutineID())
	for fn := range l.tasks {
		l.invoke(fn)
	}
}

// invoke isolates task panics so one bad task cannot kill the loop.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("loop", l.name).Interface("panic", r).Msg("Task panicked")
		}
	}()
	fn()
}

// Submit enqueues fn to run on the loop, FIFO relative to other submissions.
// Tasks submitted after Stop are dropped with a warning.
func (l *Loop) Submit(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		log.Warn().Str("loop", l.name).Msg("Task dropped: loop stopped")
		return
	}
	l.tasks <- fn
}

// Running reports whether the calling goroutine is the loop goroutine.
func (l *Loop) Running() bool {
	return goroutineID() == l.gid.Load()
}

// Stop closes the loop to new submissions, drains queued tasks and waits for
// the loop goroutine to exit. It must not be called from the loop itself.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.tasks)
	l.mu.Unlock()

	l.wg.Wait()
	log.Debug().Str("loop", l.name).Msg("Loop stopped")
}
