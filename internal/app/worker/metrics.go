package worker

import (
	"github.com/airenas/minutego/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	laneTranscription = "transcription"
	laneLLM           = "llm"
)

//message results
const (
	resultOK         = "ok"
	resultFailed     = "failed"
	resultError      = "error"
	resultDeadletter = "deadletter"
	resultAbandoned  = "abandoned"
)

type workerMetrics struct {
	messages *prometheus.CounterVec
	duration *prometheus.HistogramVec
	restarts *prometheus.CounterVec
}

func newMetrics() *workerMetrics {
	namespace := "minute_worker"
	return &workerMetrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_total",
				Help:      "Processed messages by lane, type and result",
			}, []string{"lane", "type", "result"}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "handler_duration_seconds",
				Help:      "Message handler duration",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 15),
			}, []string{"type"}),
		restarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actor_restarts_total",
				Help:      "Actor loop restarts",
			}, []string{"lane"}),
	}
}

func (m *workerMetrics) register() error {
	for _, c := range []prometheus.Collector{m.messages, m.duration, m.restarts} {
		if err := metrics.Register(c); err != nil {
			return err
		}
	}
	return nil
}
