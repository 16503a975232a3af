package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/queue"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	transcriptionBatch = 1
	llmBatch           = 10
)

//Actor is a long living queue consumer. Run returns when the pool is stopped
//or on a failure, the pool restarts it then
type Actor interface {
	Name() string
	Lane() string
	Run(ctx context.Context) error
}

type actorBase struct {
	id      string
	queue   queue.Service
	stopped *atomic.Bool
	beater  Beater
	metrics *workerMetrics
}

func newActorBase(id string, q queue.Service, stopped *atomic.Bool, beater Beater, m *workerMetrics) actorBase {
	res := actorBase{id: id, queue: q, stopped: stopped, beater: beater, metrics: m}
	res.beater.Beat()
	return res
}

func (a *actorBase) Name() string {
	return a.id
}

func (a *actorBase) loop(ctx context.Context, iteration func(context.Context) error) error {
	for !a.stopped.Load() {
		if err := iteration(ctx); err != nil {
			return err
		}
		a.beater.Beat()
	}
	return nil
}

func (a *actorBase) receive(ctx context.Context, max int) ([]*queue.Received, error) {
	res, err := a.queue.ReceiveMessage(ctx, max)
	if err != nil {
		if a.stopped.Load() {
			return nil, nil
		}
		return nil, errors.Wrap(err, "Can't receive messages")
	}
	return res, nil
}

func (a *actorBase) abandon(lane string, rm *queue.Received) {
	cmdapp.Log.Infof("Stopping. Abandoning %s(%s)", rm.Message.Type, rm.Message.ID)
	if err := a.queue.AbandonMessage(context.Background(), rm.Handle); err != nil {
		cmdapp.Log.Error(err)
	}
	a.count(lane, rm.Message, resultAbandoned)
}

func (a *actorBase) deadletter(lane string, rm *queue.Received) error {
	cmdapp.Log.Warnf("Unknown task type: %s(%d) for %s", rm.Message.Type, int(rm.Message.Type), rm.Message.ID)
	a.count(lane, rm.Message, resultDeadletter)
	return a.queue.DeadletterMessage(context.Background(), rm.Message, rm.Handle)
}

func (a *actorBase) count(lane string, m *messages.WorkerMessage, result string) {
	a.metrics.messages.WithLabelValues(lane, m.Type.String(), result).Inc()
}

func (a *actorBase) observe(m *messages.WorkerMessage, start time.Time) {
	a.metrics.duration.WithLabelValues(m.Type.String()).Observe(time.Since(start).Seconds())
}

type transcriptionActor struct {
	actorBase
	llmQueue queue.Service
	handler  *transcriptionHandler
	minutes  MinuteStore
}

func (a *transcriptionActor) Lane() string {
	return laneTranscription
}

func (a *transcriptionActor) Run(ctx context.Context) error {
	cmdapp.Log.Infof("Actor %s receiving transcription messages", a.id)
	return a.loop(ctx, a.iteration)
}

func (a *transcriptionActor) iteration(ctx context.Context) error {
	msgs, err := a.receive(ctx, transcriptionBatch)
	if err != nil {
		return err
	}
	for _, rm := range msgs {
		if a.stopped.Load() {
			a.abandon(laneTranscription, rm)
			continue
		}
		if err := a.handle(rm); err != nil {
			return err
		}
	}
	return nil
}

func (a *transcriptionActor) handle(rm *queue.Received) error {
	m := rm.Message
	if m.Type != messages.Transcription {
		return a.deadletter(laneTranscription, rm)
	}
	ctx := context.Background()
	cmdapp.Log.Infof("Received minute id for transcription: %s", m.ID)
	start := time.Now()
	job, err := a.handler.process(ctx, m.ID.String(), m.TranscriptionJobData())
	a.observe(m, start)
	if err != nil {
		var tfe *TranscriptionFailedError
		if !errors.As(err, &tfe) {
			a.count(laneTranscription, m, resultError)
			return errors.Wrapf(err, "Can't process %s", m.ID)
		}
		cmdapp.Log.Errorf("Transcription failed for minute id %s: %v", m.ID, err)
		a.count(laneTranscription, m, resultFailed)
	} else {
		if err := a.next(ctx, m.ID, job); err != nil {
			a.count(laneTranscription, m, resultError)
			return err
		}
		a.count(laneTranscription, m, resultOK)
	}
	return a.queue.CompleteMessage(ctx, rm.Handle)
}

//next publishes minute generation for the finished transcription or requeues the running job
func (a *transcriptionActor) next(ctx context.Context, minuteID uuid.UUID, job *messages.TranscriptionJobData) error {
	if !job.HasTranscript() {
		cmdapp.Log.Infof("Async transcription job %s not ready yet. Re-queueing minute id: %s", job.JobName, minuteID)
		return a.queue.PublishMessage(ctx, messages.NewTranscriptionMessage(minuteID, job))
	}
	cmdapp.Log.Infof("Transcription complete for minute id %s", minuteID)
	v, err := a.minutes.GetOnlyVersion(ctx, minuteID.String())
	if err != nil {
		return errors.Wrapf(err, "Can't get minute version of %s", minuteID)
	}
	id, err := uuid.Parse(v.ID)
	if err != nil {
		return errors.Wrapf(err, "Wrong minute version id '%s'", v.ID)
	}
	return a.llmQueue.PublishMessage(ctx, messages.NewWorkerMessage(id, messages.Minute))
}

type llmActor struct {
	actorBase
	minutes *minuteHandler
	chats   *chatHandler
}

func (a *llmActor) Lane() string {
	return laneLLM
}

func (a *llmActor) Run(ctx context.Context) error {
	cmdapp.Log.Infof("Actor %s receiving LLM messages", a.id)
	return a.loop(ctx, a.iteration)
}

func (a *llmActor) iteration(ctx context.Context) error {
	msgs, err := a.receive(ctx, llmBatch)
	if err != nil {
		return err
	}
	var wg sync.WaitGroup
	for _, rm := range msgs {
		if a.stopped.Load() {
			a.abandon(laneLLM, rm)
			continue
		}
		h := a.handlerFor(rm.Message)
		if h == nil {
			if err := a.deadletter(laneLLM, rm); err != nil {
				cmdapp.Log.Error(errors.Wrapf(err, "Can't deadletter %s", rm.Message.ID))
			}
			continue
		}
		wg.Add(1)
		go func(rm *queue.Received, h func(context.Context) error) {
			defer wg.Done()
			a.dispatch(rm, h)
		}(rm, h)
	}
	wg.Wait()
	return nil
}

func (a *llmActor) handlerFor(m *messages.WorkerMessage) func(context.Context) error {
	id := m.ID.String()
	switch m.Type {
	case messages.Minute:
		return func(ctx context.Context) error { return a.minutes.generate(ctx, id) }
	case messages.Edit:
		source := ""
		if d := m.EditData(); d != nil {
			source = d.SourceID.String()
		}
		return func(ctx context.Context) error { return a.minutes.edit(ctx, id, source) }
	case messages.Interactive:
		return func(ctx context.Context) error { return a.chats.process(ctx, id) }
	}
	return nil
}

func (a *llmActor) dispatch(rm *queue.Received, h func(context.Context) error) {
	m := rm.Message
	defer func() {
		if r := recover(); r != nil {
			cmdapp.Log.Errorf("Unhandled error in LLM actor: %s(%s) panic: %v", m.Type, m.ID, r)
			a.count(laneLLM, m, resultError)
		}
	}()
	ctx := context.Background()
	cmdapp.Log.Infof("Received %s message for %s", m.Type, m.ID)
	start := time.Now()
	err := h(ctx)
	a.observe(m, start)
	if err != nil {
		if !isHandled(err) {
			cmdapp.Log.Error(errors.Wrapf(err, "Unhandled error in LLM actor: %s(%s)", m.Type, m.ID))
			a.count(laneLLM, m, resultError)
			return
		}
		cmdapp.Log.Errorf("%s for %s failed: %v", m.Type, m.ID, err)
		a.count(laneLLM, m, resultFailed)
	} else {
		cmdapp.Log.Infof("%s complete for %s", m.Type, m.ID)
		a.count(laneLLM, m, resultOK)
	}
	if err := a.queue.CompleteMessage(ctx, rm.Handle); err != nil {
		cmdapp.Log.Error(errors.Wrapf(err, "Can't complete %s", m.ID))
	}
}

func isHandled(err error) bool {
	var mge *MinuteGenerationFailedError
	var ife *InteractionFailedError
	var tfe *TranscriptionFailedError
	return errors.As(err, &mge) || errors.As(err, &ife) || errors.As(err, &tfe)
}
