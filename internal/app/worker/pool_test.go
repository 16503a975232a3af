package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActor struct {
	id      string
	runs    *int32
	stopped *atomic.Bool
}

func (a *fakeActor) Name() string { return a.id }
func (a *fakeActor) Lane() string { return laneLLM }

func (a *fakeActor) Run(ctx context.Context) error {
	if atomic.AddInt32(a.runs, 1) == 1 {
		return errors.New("olia")
	}
	<-ctx.Done()
	return nil
}

func TestPool_Restarts(t *testing.T) {
	var runs, created int32
	p := newPool(5*time.Millisecond, newMetrics())
	p.add(laneLLM, 1, func(id string, stopped *atomic.Bool) (Actor, error) {
		atomic.AddInt32(&created, 1)
		return &fakeActor{id: id, runs: &runs, stopped: stopped}, nil
	})
	require.Nil(t, p.start())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)

	select {
	case <-p.Stop():
	case <-time.After(time.Second):
		assert.Fail(t, "pool not stopped")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
	assert.True(t, p.stopped.Load())
}

type panicActor struct {
	runs *int32
	m    map[string]int
}

func (a *panicActor) Name() string { return "p" }
func (a *panicActor) Lane() string { return laneTranscription }

func (a *panicActor) Run(ctx context.Context) error {
	if atomic.AddInt32(a.runs, 1) == 1 {
		a.m["olia"] = 1
	}
	<-ctx.Done()
	return nil
}

func TestPool_RestartsAfterPanic(t *testing.T) {
	var runs int32
	p := newPool(5*time.Millisecond, newMetrics())
	p.add(laneTranscription, 1, func(id string, stopped *atomic.Bool) (Actor, error) {
		return &panicActor{runs: &runs}, nil
	})
	require.Nil(t, p.start())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	<-p.Stop()
}

func TestPending(t *testing.T) {
	c1, c2 := make(chan struct{}), make(chan struct{})
	close(c1)
	assert.Equal(t, 1, pending([]chan struct{}{c1, c2}))
	close(c2)
	assert.Equal(t, 0, pending([]chan struct{}{c1, c2}))
}

func TestPool_WaitAll(t *testing.T) {
	p := newPool(time.Second, newMetrics())
	c := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(c)
	}()
	finished := make(chan struct{})
	go func() {
		p.waitAll([]chan struct{}{c}, 5*time.Millisecond)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		assert.Fail(t, "not finished")
	}
}

func TestPool_StartFails(t *testing.T) {
	p := newPool(time.Second, newMetrics())
	p.add(laneTranscription, 2, func(id string, stopped *atomic.Bool) (Actor, error) {
		return nil, errors.New("olia")
	})
	assert.NotNil(t, p.start())
}

func TestPool_Ids(t *testing.T) {
	p := newPool(time.Second, newMetrics())
	p.add(laneTranscription, 2, nil)
	p.add(laneLLM, 1, nil)
	require.Equal(t, 3, len(p.slots))
	assert.Equal(t, "transcription-0", p.slots[0].id)
	assert.Equal(t, "transcription-1", p.slots[1].id)
	assert.Equal(t, "llm-0", p.slots[2].id)
}

func TestPool_StopTwice(t *testing.T) {
	p := newPool(time.Second, newMetrics())
	require.Nil(t, p.start())
	c := p.Stop()
	assert.Equal(t, c, p.Stop())
	<-c
}
