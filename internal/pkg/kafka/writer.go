package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

//Writer sends status events to a Kafka topic keyed by entity id
type Writer struct {
	writer messageWriter
	topic  string
}

//NewWriter creates Kafka writer
func NewWriter(brokers []string, topic string) (*Writer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("No kafka brokers provided")
	}
	if topic == "" {
		return nil, errors.New("No kafka topic provided")
	}
	cmdapp.Log.Infof("Kafka writer: %v, topic %s", brokers, topic)
	dialer := &kafkago.Dialer{Timeout: 10 * time.Second, DualStack: true}
	return &Writer{topic: topic, writer: &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafkago.RequireOne,
		Transport:    &kafkago.Transport{Dial: dialer.DialFunc},
	}}, nil
}

//Notify writes the event
func (w *Writer) Notify(ctx context.Context, ev *api.StatusEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "Can't marshal event")
	}
	if err := w.writer.WriteMessages(ctx, kafkago.Message{Key: []byte(ev.ID), Value: b}); err != nil {
		return errors.Wrapf(err, "Can't write to %s", w.topic)
	}
	cmdapp.Log.Debugf("Sent %s %s=%s to %s", ev.Entity, ev.ID, ev.Status, w.topic)
	return nil
}

//Close flushes and closes the writer
func (w *Writer) Close() error {
	return w.writer.Close()
}

//NoOp drops events, used when kafka is not configured
type NoOp struct{}

//Notify does nothing
func (NoOp) Notify(ctx context.Context, ev *api.StatusEvent) error {
	return nil
}

//Close does nothing
func (NoOp) Close() error {
	return nil
}
