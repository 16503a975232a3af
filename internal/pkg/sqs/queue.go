package sqs

import (
	"context"
	"strings"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/queue"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"
)

//API is a subset of sqs client used by the queue
type API interface {
	GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *awssqs.ChangeMessageVisibilityInput, optFns ...func(*awssqs.Options)) (*awssqs.ChangeMessageVisibilityOutput, error)
	SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error)
	DeleteMessage(ctx context.Context, params *awssqs.DeleteMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteMessageOutput, error)
	PurgeQueue(ctx context.Context, params *awssqs.PurgeQueueInput, optFns ...func(*awssqs.Options)) (*awssqs.PurgeQueueOutput, error)
}

//Queue implements queue.Service on SQS
type Queue struct {
	api      API
	name     string
	url      string
	dlqURL   string
	pollWait int32
}

//NewQueue resolves queue urls and returns the queue
func NewQueue(ctx context.Context, api API, name, dlqName string) (*Queue, error) {
	if name == "" {
		return nil, errors.New("No queue name")
	}
	if dlqName == "" {
		return nil, errors.New("No deadletter queue name")
	}
	res := &Queue{api: api, name: name, pollWait: int32(queue.PollWait.Seconds())}
	var err error
	if res.url, err = res.queueURL(ctx, name); err != nil {
		return nil, err
	}
	if res.dlqURL, err = res.queueURL(ctx, dlqName); err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("SQS queue: %s", res.url)
	return res, nil
}

//WithPollWait overrides receive wait time
func (q *Queue) WithPollWait(seconds int32) *Queue {
	q.pollWait = seconds
	return q
}

func (q *Queue) queueURL(ctx context.Context, name string) (string, error) {
	out, err := q.api.GetQueueUrl(ctx, &awssqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		return "", errors.Wrapf(err, "Can't get queue url for %s", name)
	}
	return aws.ToString(out.QueueUrl), nil
}

//ReceiveMessage receives messages and extends their visibility. Messages
//failing to decode or to extend are skipped
func (q *Queue) ReceiveMessage(ctx context.Context, max int) ([]*queue.Received, error) {
	out, err := q.api.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.url),
		MaxNumberOfMessages: int32(max),
		WaitTimeSeconds:     q.pollWait,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Can't receive from %s", q.name)
	}
	res := make([]*queue.Received, 0, len(out.Messages))
	for _, m := range out.Messages {
		msg, err := messages.Decode([]byte(aws.ToString(m.Body)))
		if err != nil {
			cmdapp.Log.Error(err)
			continue
		}
		_, err = q.api.ChangeMessageVisibility(ctx, &awssqs.ChangeMessageVisibilityInput{
			QueueUrl:          aws.String(q.url),
			ReceiptHandle:     m.ReceiptHandle,
			VisibilityTimeout: int32(queue.VisibilityTimeout.Seconds()),
		})
		if err != nil {
			cmdapp.Log.Error(errors.Wrapf(err, "Can't change visibility of %s", msg.ID))
			continue
		}
		res = append(res, &queue.Received{Message: msg, Handle: aws.ToString(m.ReceiptHandle)})
	}
	return res, nil
}

//PublishMessage sends message to the queue
func (q *Queue) PublishMessage(ctx context.Context, msg *messages.WorkerMessage) error {
	return q.send(ctx, q.url, msg)
}

func (q *Queue) send(ctx context.Context, url string, msg *messages.WorkerMessage) error {
	b, err := messages.Encode(msg)
	if err != nil {
		return err
	}
	cmdapp.Log.Infof("Sending %s(%s) to %s", msg.Type, msg.ID, url)
	_, err = q.api.SendMessage(ctx, &awssqs.SendMessageInput{QueueUrl: aws.String(url), MessageBody: aws.String(string(b))})
	if err != nil {
		return errors.Wrap(err, "Can't send message")
	}
	return nil
}

//CompleteMessage deletes message, stale handle is only logged
func (q *Queue) CompleteMessage(ctx context.Context, handle string) error {
	_, err := q.api.DeleteMessage(ctx, &awssqs.DeleteMessageInput{QueueUrl: aws.String(q.url), ReceiptHandle: aws.String(handle)})
	if err != nil {
		if isStaleHandle(err) {
			cmdapp.Log.Warnf("Can't delete message, handle is no longer valid: %v", err)
			return nil
		}
		return errors.Wrap(err, "Can't delete message")
	}
	return nil
}

//DeadletterMessage copies message to deadletter queue and deletes it from the main one
func (q *Queue) DeadletterMessage(ctx context.Context, msg *messages.WorkerMessage, handle string) error {
	if err := q.send(ctx, q.dlqURL, msg); err != nil {
		return errors.Wrap(err, "Can't deadletter")
	}
	return q.CompleteMessage(ctx, handle)
}

//AbandonMessage makes message visible immediately
func (q *Queue) AbandonMessage(ctx context.Context, handle string) error {
	_, err := q.api.ChangeMessageVisibility(ctx, &awssqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(q.url),
		ReceiptHandle:     aws.String(handle),
		VisibilityTimeout: 0,
	})
	if err != nil {
		return errors.Wrap(err, "Can't abandon message")
	}
	return nil
}

//PurgeMessages drops all queue messages
func (q *Queue) PurgeMessages(ctx context.Context) error {
	_, err := q.api.PurgeQueue(ctx, &awssqs.PurgeQueueInput{QueueUrl: aws.String(q.url)})
	if err != nil {
		return errors.Wrapf(err, "Can't purge %s", q.name)
	}
	return nil
}

func isStaleHandle(err error) bool {
	var ih *types.ReceiptHandleIsInvalid
	if errors.As(err, &ih) {
		return true
	}
	var ni *types.MessageNotInflight
	if errors.As(err, &ni) {
		return true
	}
	return strings.Contains(err.Error(), "ReceiptHandleIsInvalid")
}
