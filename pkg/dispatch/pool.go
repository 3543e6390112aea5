package dispatch

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// QoS is the quality-of-service class a background task is admitted under.
// Higher classes get more concurrent slots in a Pool.
type QoS int

const (
	// QoSBackground is for work the user never waits on (compaction,
	// prefetching).
	QoSBackground QoS = iota
	// QoSUtility is for long-running work with visible progress.
	QoSUtility
	// QoSDefault is the class used when callers do not care. It is the
	// default for OnGlobal and Pool.Submit.
	QoSDefault
	// QoSUserInitiated is for work the user is actively waiting on.
	QoSUserInitiated
	// QoSUserInteractive is for work gating interactive feedback.
	QoSUserInteractive

	numQoS = int(QoSUserInteractive) + 1
)

// String returns the class name used in logs and configuration.
func (q QoS) String() string {
	switch q {
	case QoSBackground:
		return "background"
	case QoSUtility:
		return "utility"
	case QoSDefault:
		return "default"
	case QoSUserInitiated:
		return "user-initiated"
	case QoSUserInteractive:
		return "user-interactive"
	default:
		return "unknown"
	}
}

// ParseQoS maps a class name back to its QoS, falling back to QoSDefault for
// unknown names.
func ParseQoS(name string) QoS {
	switch name {
	case "background":
		return QoSBackground
	case "utility":
		return QoSUtility
	case "user-initiated":
		return QoSUserInitiated
	case "user-interactive":
		return QoSUserInteractive
	default:
		return QoSDefault
	}
}

// PoolConfig holds configuration for a background pool.
type PoolConfig struct {
	Name string
	// Limits caps concurrent tasks per class. Classes left at zero get a
	// default derived from GOMAXPROCS.
	Limits map[QoS]int64
}

// defaultLimit returns the concurrency cap for a class when the
// configuration does not set one.
func defaultLimit(qos QoS) int64 {
	n := int64(runtime.GOMAXPROCS(0))
	switch qos {
	case QoSBackground:
		return 1
	case QoSUtility:
		if n >= 2 {
			return n / 2
		}
		return 1
	default:
		return n
	}
}

// Pool is a background executor classed by QoS. Each task runs on its own
// goroutine once admitted by its class semaphore, so execution order across
// tasks is whatever the runtime scheduler produces.
type Pool struct {
	name string
	sems [numQoS]*semaphore.Weighted

	mu      sync.Mutex
	running map[uint64]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a Pool with per-class admission limits.
func NewPool(cfg PoolConfig) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:    cfg.Name,
		running: make(map[uint64]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	for q := 0; q < numQoS; q++ {
		limit := cfg.Limits[QoS(q)]
		if limit <= 0 {
			limit = defaultLimit(QoS(q))
		}
		p.sems[q] = semaphore.NewWeighted(limit)
	}
	return p
}

// SubmitQoS hands fn off for execution under the given class and returns
// immediately. Tasks submitted after Shutdown are dropped with a warning.
func (p *Pool) SubmitQoS(qos QoS, fn func()) {
	if qos < 0 || int(qos) >= numQoS {
		qos = QoSDefault
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sems[qos].Acquire(p.ctx, 1); err != nil {
			log.Warn().Str("pool", p.name).Stringer("qos", qos).Msg("Task dropped: pool shut down")
			return
		}
		defer p.sems[qos].Release(1)

		gid := goroutineID()
		p.mu.Lock()
		p.running[gid] = struct{}{}
		p.mu.Unlock()
		defer func() {
			p.mu.Lock()
			delete(p.running, gid)
			p.mu.Unlock()
			if r := recover(); r != nil {
				log.Error().Str("pool", p.name).Interface("panic", r).Msg("Task panicked")
			}
		}()

		fn()
	}()
}

// Submit enqueues fn under QoSDefault.
func (p *Pool) Submit(fn func()) {
	p.SubmitQoS(QoSDefault, fn)
}

// Running reports whether the calling goroutine is currently executing a
// pool task.
func (p *Pool) Running() bool {
	gid := goroutineID()
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.running[gid]
	return ok
}

// Class returns an Executor view of the pool bound to one QoS class.
func (p *Pool) Class(qos QoS) Executor {
	return classExecutor{pool: p, qos: qos}
}

// Shutdown stops admitting tasks and waits for in-flight ones, returning
// early with ctx's error when it expires first. Tasks still waiting for a
// class slot are dropped.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Debug().Str("pool", p.name).Msg("Pool shut down")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classExecutor adapts one QoS class of a Pool to the Executor interface.
type classExecutor struct {
	pool *Pool
	qos  QoS
}

func (c classExecutor) Submit(fn func()) {
	c.pool.SubmitQoS(c.qos, fn)
}

func (c classExecutor) Running() bool {
	return c.pool.Running()
}
