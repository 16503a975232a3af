package worker

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/airenas/minutego/internal/pkg/queue"
	"github.com/pkg/errors"
)

//ServiceData keeps data required for service work
type ServiceData struct {
	Workers config.WorkerSettings
	Queues  config.QueueSettings
	// QueueFactory is called once per actor and queue
	QueueFactory queue.Factory
	NewBeater    func(id string) Beater

	Transcriptions TranscriptionStore
	Minutes        MinuteStore
	Chats          ChatStore
	Transcriber    Transcriber
	Speakers       SpeakerProcessor
	Generator      Generator
	ChatResponder  ChatResponder
	Notifier       Notifier

	StopCh <-chan os.Signal
}

//StartWorkerService starts the actor pool. The returned channel is closed
//when the pool is stopped by a signal and all actors are finished
//
//	fc, err := StartWorkerService(data)
//	handle err
//	<-fc // waits for finish
func StartWorkerService(data *ServiceData) (<-chan struct{}, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	m := newMetrics()
	if err := m.register(); err != nil {
		return nil, errors.Wrap(err, "Can't register metrics")
	}
	p := newPool(data.Workers.CheckEvery, m)
	p.add(laneTranscription, data.Workers.Transcription, transcriptionActorFactory(data, m))
	p.add(laneLLM, data.Workers.LLM, llmActorFactory(data, m))
	if err := p.start(); err != nil {
		return nil, err
	}
	res := make(chan struct{})
	go func() {
		sig := <-data.StopCh
		cmdapp.Log.Infof("Got signal %v. Stopping workers", sig)
		<-p.Stop()
		close(res)
	}()
	return res, nil
}

func validate(data *ServiceData) error {
	if data.QueueFactory == nil {
		return errors.New("No queue factory")
	}
	if data.NewBeater == nil {
		return errors.New("No heartbeat")
	}
	if data.Transcriptions == nil || data.Minutes == nil || data.Chats == nil {
		return errors.New("No store")
	}
	if data.Transcriber == nil {
		return errors.New("No transcriber")
	}
	if data.Speakers == nil {
		return errors.New("No speaker processor")
	}
	if data.Generator == nil {
		return errors.New("No minutes generator")
	}
	if data.ChatResponder == nil {
		return errors.New("No chat responder")
	}
	if data.StopCh == nil {
		return errors.New("No stop channel")
	}
	if data.Workers.CheckEvery <= 0 {
		return errors.New("No check interval")
	}
	return nil
}

func transcriptionActorFactory(data *ServiceData, m *workerMetrics) ActorFactory {
	return func(id string, stopped *atomic.Bool) (Actor, error) {
		trq, err := data.QueueFactory(data.Queues.TranscriptionQueue, data.Queues.TranscriptionDeadletterQueue)
		if err != nil {
			return nil, errors.Wrap(err, "Can't init transcription queue")
		}
		llmq, err := data.QueueFactory(data.Queues.LLMQueue, data.Queues.LLMDeadletterQueue)
		if err != nil {
			return nil, errors.Wrap(err, "Can't init llm queue")
		}
		return &transcriptionActor{
			actorBase: newActorBase(id, trq, stopped, data.NewBeater(id), m),
			llmQueue:  llmq,
			handler: &transcriptionHandler{transcriptions: data.Transcriptions, transcriber: data.Transcriber,
				speakers: data.Speakers, notifier: data.Notifier},
			minutes: data.Minutes,
		}, nil
	}
}

func llmActorFactory(data *ServiceData, m *workerMetrics) ActorFactory {
	return func(id string, stopped *atomic.Bool) (Actor, error) {
		q, err := data.QueueFactory(data.Queues.LLMQueue, data.Queues.LLMDeadletterQueue)
		if err != nil {
			return nil, errors.Wrap(err, "Can't init llm queue")
		}
		return &llmActor{
			actorBase: newActorBase(id, q, stopped, data.NewBeater(id), m),
			minutes:   &minuteHandler{minutes: data.Minutes, generator: data.Generator, notifier: data.Notifier},
			chats: &chatHandler{chats: data.Chats, transcriptions: data.Transcriptions,
				responder: data.ChatResponder, notifier: data.Notifier},
		}, nil
	}
}

//Purge drops all messages from the transcription and llm queues
func Purge(ctx context.Context, f queue.Factory, qs config.QueueSettings) error {
	for _, n := range [][2]string{{qs.TranscriptionQueue, qs.TranscriptionDeadletterQueue}, {qs.LLMQueue, qs.LLMDeadletterQueue}} {
		q, err := f(n[0], n[1])
		if err != nil {
			return errors.Wrapf(err, "Can't init queue %s", n[0])
		}
		if err := q.PurgeMessages(ctx); err != nil {
			return err
		}
		cmdapp.Log.Infof("Purged %s", n[0])
	}
	return nil
}
