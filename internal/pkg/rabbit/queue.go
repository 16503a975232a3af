package rabbit

import (
	"context"
	"strconv"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/queue"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

//Channel is a subset of amqp channel used by the queue
type Channel interface {
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
	Ack(tag uint64, multiple bool) error
	Nack(tag uint64, multiple bool, requeue bool) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	QueuePurge(name string, noWait bool) (int, error)
}

type runner func(f func(Channel) error) error

//Queue implements queue.Service on rabbit mq.
//Handle is a delivery tag, so message must be settled on the same channel
type Queue struct {
	run      runner
	name     string
	dlqName  string
	pollWait time.Duration
	sleep    time.Duration
}

//NewQueue declares queue with its deadletter queue and returns the queue
func NewQueue(pr *ChannelProvider, name, deadletter string) (*Queue, error) {
	if name == "" || deadletter == "" {
		return nil, errors.New("No queue name")
	}
	qName := pr.QueueName(name)
	dlqName := pr.QueueName(deadletter)
	ch, err := pr.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := Declare(ch, qName, dlqName); err != nil {
		return nil, errors.Wrapf(err, "Can't declare %s", qName)
	}
	cmdapp.Log.Infof("Rabbit queue: %s", qName)
	return newQueue(func(f func(Channel) error) error {
		return pr.RunOnChannelWithRetry(func(ch *amqp.Channel) error { return f(ch) })
	}, qName, dlqName), nil
}

func newQueue(run runner, name, dlqName string) *Queue {
	return &Queue{run: run, name: name, dlqName: dlqName, pollWait: queue.PollWait, sleep: 500 * time.Millisecond}
}

//ReceiveMessage polls the queue until max messages are collected or poll time ends
func (q *Queue) ReceiveMessage(ctx context.Context, max int) ([]*queue.Received, error) {
	var res []*queue.Received
	deadline := time.Now().Add(q.pollWait)
	for len(res) < max {
		var d amqp.Delivery
		var ok bool
		err := q.run(func(ch Channel) error {
			var err error
			d, ok, err = ch.Get(q.name, false)
			return err
		})
		if err != nil {
			return res, errors.Wrapf(err, "Can't get from %s", q.name)
		}
		if ok {
			msg, err := messages.Decode(d.Body)
			if err != nil {
				// left unsettled, broker redelivers it when the channel closes
				cmdapp.Log.Errorf("Skip message %d: %v", d.DeliveryTag, err)
				continue
			}
			res = append(res, &queue.Received{Message: msg, Handle: strconv.FormatUint(d.DeliveryTag, 10)})
			continue
		}
		if len(res) > 0 || !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return res, nil
		case <-time.After(q.sleep):
		}
	}
	return res, nil
}

//PublishMessage sends persistent json message
func (q *Queue) PublishMessage(ctx context.Context, msg *messages.WorkerMessage) error {
	b, err := messages.Encode(msg)
	if err != nil {
		return err
	}
	cmdapp.Log.Infof("Sending %s(%s) to %s", msg.Type, msg.ID, q.name)
	err = q.run(func(ch Channel) error {
		return ch.Publish("", q.name, false, false, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         b,
		})
	})
	if err != nil {
		return errors.Wrap(err, "Can't send message")
	}
	return nil
}

//CompleteMessage acks the message, failures are only logged
func (q *Queue) CompleteMessage(ctx context.Context, handle string) error {
	tag, err := parseHandle(handle)
	if err != nil {
		cmdapp.Log.Warn(err)
		return nil
	}
	if err := q.run(func(ch Channel) error { return ch.Ack(tag, false) }); err != nil {
		cmdapp.Log.Warnf("Can't ack message %s: %v", handle, err)
	}
	return nil
}

//DeadletterMessage rejects message, broker routes it to the deadletter queue
func (q *Queue) DeadletterMessage(ctx context.Context, msg *messages.WorkerMessage, handle string) error {
	return q.nack(handle, false)
}

//AbandonMessage returns message to the queue
func (q *Queue) AbandonMessage(ctx context.Context, handle string) error {
	return q.nack(handle, true)
}

func (q *Queue) nack(handle string, requeue bool) error {
	tag, err := parseHandle(handle)
	if err != nil {
		return err
	}
	if err := q.run(func(ch Channel) error { return ch.Nack(tag, false, requeue) }); err != nil {
		return errors.Wrapf(err, "Can't nack message %s", handle)
	}
	return nil
}

//PurgeMessages drops all queue messages
func (q *Queue) PurgeMessages(ctx context.Context) error {
	return q.run(func(ch Channel) error {
		n, err := ch.QueuePurge(q.name, false)
		if err != nil {
			return errors.Wrapf(err, "Can't purge %s", q.name)
		}
		cmdapp.Log.Infof("Purged %d messages from %s", n, q.name)
		return nil
	})
}

func parseHandle(handle string) (uint64, error) {
	res, err := strconv.ParseUint(handle, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "Wrong handle '%s'", handle)
	}
	return res, nil
}
