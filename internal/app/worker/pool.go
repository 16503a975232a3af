package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

//ActorFactory creates an actor with the id. Each actor must get its own
//queue connection
type ActorFactory func(id string, stopped *atomic.Bool) (Actor, error)

type slot struct {
	id      string
	lane    string
	factory ActorFactory
	actor   Actor
	done    chan struct{}
	err     error
}

//Pool keeps configured number of actors running and restarts finished ones
type Pool struct {
	slots      []*slot
	mu         sync.Mutex
	stopped    atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
	checkEvery time.Duration
	metrics    *workerMetrics
	qChan      chan struct{}
	finished   chan struct{}
}

func newPool(checkEvery time.Duration, m *workerMetrics) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{ctx: ctx, cancel: cancel, checkEvery: checkEvery, metrics: m,
		qChan: make(chan struct{}), finished: make(chan struct{})}
}

func (p *Pool) add(lane string, count int, f ActorFactory) {
	for i := 0; i < count; i++ {
		p.slots = append(p.slots, &slot{id: fmt.Sprintf("%s-%d", lane, i), lane: lane, factory: f})
	}
}

func (p *Pool) start() error {
	cmdapp.Log.Infof("Starting %d actors", len(p.slots))
	for _, s := range p.slots {
		if err := p.startActor(s); err != nil {
			p.stopped.Store(true)
			p.cancel()
			return errors.Wrapf(err, "Can't start actor %s", s.id)
		}
	}
	go p.superviseLoop()
	return nil
}

//startActor creates the actor once, later calls only rerun its loop
func (p *Pool) startActor(s *slot) error {
	if s.actor == nil {
		a, err := s.factory(s.id, &p.stopped)
		if err != nil {
			return err
		}
		s.actor = a
	}
	a := s.actor
	done := make(chan struct{})
	s.done = done
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				s.err = errors.Errorf("panic: %v", r)
			}
		}()
		s.err = a.Run(p.ctx)
	}()
	return nil
}

func (p *Pool) superviseLoop() {
	ticker := time.NewTicker(p.checkEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.check()
		case <-p.qChan:
			return
		}
	}
}

func (p *Pool) check() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.slots {
		if p.stopped.Load() {
			return
		}
		if !isDone(s.done) {
			continue
		}
		if s.done != nil {
			cmdapp.Log.Warnf("Actor %s has finished unexpectedly: %v", s.id, s.err)
			p.metrics.restarts.WithLabelValues(s.lane).Inc()
			s.done = nil
		}
		if err := p.startActor(s); err != nil {
			cmdapp.Log.Error(errors.Wrapf(err, "Can't restart actor %s", s.id))
		}
	}
}

//Stop signals actors to finish current work. The returned channel is closed
//when all actors are finished
func (p *Pool) Stop() <-chan struct{} {
	if p.stopped.Swap(true) {
		return p.finished
	}
	close(p.qChan)
	p.cancel()
	p.mu.Lock()
	var wait []chan struct{}
	for _, s := range p.slots {
		if s.done != nil {
			wait = append(wait, s.done)
		}
	}
	p.mu.Unlock()
	go func() {
		p.waitAll(wait, time.Second)
		cmdapp.Log.Info("All actors finished")
		close(p.finished)
	}()
	return p.finished
}

//waitAll logs the number of running actors every tick until all are done
func (p *Pool) waitAll(wait []chan struct{}, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		left := pending(wait)
		if left == 0 {
			return
		}
		cmdapp.Log.Infof("Waiting for %d actors", left)
		<-ticker.C
	}
}

func pending(wait []chan struct{}) int {
	res := 0
	for _, c := range wait {
		if !isDone(c) {
			res++
		}
	}
	return res
}

func isDone(c <-chan struct{}) bool {
	if c == nil {
		return true
	}
	select {
	case <-c:
		return true
	default:
		return false
	}
}
