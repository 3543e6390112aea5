package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// LoopSuite exercises the serial executor.
type LoopSuite struct {
	suite.Suite
	loop *Loop
}

func (s *LoopSuite) SetupTest() {
	s.loop = NewLoop("test")
}

func (s *LoopSuite) TearDownTest() {
	s.loop.Stop()
}

func TestLoopSuite(t *testing.T) {
	suite.Run(t, new(LoopSuite))
}

func (s *LoopSuite) TestSubmit_RunsTasksInOrder() {
	const n = 100
	var got []int
	done := make(chan struct{})

	for i := 0; i < n; i++ {
		i := i
		s.loop.Submit(func() {
			// The loop is serial, so no synchronization is needed here.
			got = append(got, i)
		})
	}
	s.loop.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("loop did not drain in time")
	}

	s.Require().Len(got, n)
	for i, v := range got {
		s.Equal(i, v, "task order must be FIFO")
	}
}

func (s *LoopSuite) TestRunning_OnAndOffLoop() {
	s.False(s.loop.Running(), "test goroutine is not the loop")

	res := make(chan bool, 1)
	s.loop.Submit(func() { res <- s.loop.Running() })
	s.True(<-res, "tasks run on the loop goroutine")
}

func (s *LoopSuite) TestDo_InlineWhenAlreadyOnLoop() {
	done := make(chan struct{})
	s.loop.Submit(func() {
		ran := false
		// Already on the loop: Do must invoke synchronously, not deadlock
		// on the task channel.
		Do(s.loop, func() { ran = true })
		s.True(ran, "nested Do must run inline")
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("nested Do did not complete")
	}
}

func (s *LoopSuite) TestDo_AsyncFromOutside() {
	started := make(chan struct{})
	release := make(chan struct{})

	// Park the loop so the submitted task cannot run before Do returns.
	s.loop.Submit(func() {
		close(started)
		<-release
	})
	<-started

	ran := atomic.Bool{}
	Do(s.loop, func() { ran.Store(true) })
	s.False(ran.Load(), "Do from another goroutine must not run inline")

	close(release)
}

func (s *LoopSuite) TestStop_DrainsAndRejects() {
	var count atomic.Int32
	for i := 0; i < 10; i++ {
		s.loop.Submit(func() { count.Add(1) })
	}
	s.loop.Stop()
	s.EqualValues(10, count.Load(), "Stop drains queued tasks")

	// Safe no-ops after stop.
	s.loop.Submit(func() { count.Add(1) })
	s.loop.Stop()
	s.EqualValues(10, count.Load())
}

func (s *LoopSuite) TestSubmit_PanicDoesNotKillLoop() {
	done := make(chan struct{})
	s.loop.Submit(func() { panic("boom") })
	s.loop.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("loop died after task panic")
	}
}

// PoolSuite exercises the QoS-classed background executor.
type PoolSuite struct {
	suite.Suite
}

func TestPoolSuite(t *testing.T) {
	suite.Run(t, new(PoolSuite))
}

func (s *PoolSuite) TestSubmitQoS_RespectsClassLimit() {
	pool := NewPool(PoolConfig{
		Name:   "limit-test",
		Limits: map[QoS]int64{QoSBackground: 1},
	})
	defer func() { _ = pool.Shutdown(context.Background()) }()

	var cur, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		pool.SubmitQoS(QoSBackground, func() {
			defer wg.Done()
			n := cur.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			cur.Add(-1)
		})
	}
	wg.Wait()

	s.EqualValues(1, peak.Load(), "background class admits one task at a time")
}

func (s *PoolSuite) TestRunning_InsideAndOutside() {
	pool := NewPool(PoolConfig{Name: "running-test"})
	defer func() { _ = pool.Shutdown(context.Background()) }()

	s.False(pool.Running())

	res := make(chan bool, 1)
	pool.Submit(func() { res <- pool.Running() })
	s.True(<-res)
}

func (s *PoolSuite) TestDo_InlineWhenOnPool() {
	pool := NewPool(PoolConfig{Name: "inline-test"})
	defer func() { _ = pool.Shutdown(context.Background()) }()

	done := make(chan struct{})
	ex := pool.Class(QoSUserInitiated)
	ex.Submit(func() {
		ran := false
		Do(ex, func() { ran = true })
		s.True(ran, "Do on the caller's own pool must run inline")
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("pool task did not complete")
	}
}

func (s *PoolSuite) TestShutdown_WaitsForInFlight() {
	pool := NewPool(PoolConfig{Name: "shutdown-test"})

	var finished atomic.Bool
	started := make(chan struct{})
	pool.Submit(func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})
	<-started

	s.Require().NoError(pool.Shutdown(context.Background()))
	s.True(finished.Load(), "Shutdown waits for running tasks")
}

func (s *PoolSuite) TestShutdown_Timeout() {
	pool := NewPool(PoolConfig{Name: "timeout-test"})

	release := make(chan struct{})
	started := make(chan struct{})
	pool.Submit(func() {
		close(started)
		<-release
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.ErrorIs(pool.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
}

func TestOnMain_OnGlobal(t *testing.T) {
	mainDone := make(chan bool, 1)
	OnMain(func() { mainDone <- Main().Running() })

	select {
	case onLoop := <-mainDone:
		if !onLoop {
			t.Error("OnMain task did not run on the main loop")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnMain task did not run")
	}

	globalDone := make(chan bool, 1)
	OnGlobal(QoSUserInitiated, func() { globalDone <- Global().Running() })

	select {
	case onPool := <-globalDone:
		if !onPool {
			t.Error("OnGlobal task did not run on the global pool")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnGlobal task did not run")
	}
}

func TestQoS_Names(t *testing.T) {
	for _, q := range []QoS{QoSBackground, QoSUtility, QoSDefault, QoSUserInitiated, QoSUserInteractive} {
		if ParseQoS(q.String()) != q {
			t.Errorf("ParseQoS(%q) != %v", q.String(), q)
		}
	}
	if ParseQoS("nonsense") != QoSDefault {
		t.Error("unknown names must fall back to the default class")
	}
}
