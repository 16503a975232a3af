package queue

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/messages"
)

const (
	// VisibilityTimeout is a lease time of received message
	VisibilityTimeout = 30 * time.Minute
	// PollWait is a default long poll time of receive
	PollWait = 20 * time.Second
)

//Received is a decoded message with broker specific handle
type Received struct {
	Message *messages.WorkerMessage
	Handle  string
}

//Service abstracts message broker backend
type Service interface {
	// ReceiveMessage returns up to max messages, may return none
	ReceiveMessage(ctx context.Context, max int) ([]*Received, error)
	PublishMessage(ctx context.Context, msg *messages.WorkerMessage) error
	// CompleteMessage removes message from queue, invalid handle is not an error
	CompleteMessage(ctx context.Context, handle string) error
	DeadletterMessage(ctx context.Context, msg *messages.WorkerMessage, handle string) error
	// AbandonMessage makes message visible for other consumers
	AbandonMessage(ctx context.Context, handle string) error
	PurgeMessages(ctx context.Context) error
}

//Factory creates queue service for the queue and its deadletter queue.
//Each actor gets its own instance
type Factory func(queueName, deadletterName string) (Service, error)
