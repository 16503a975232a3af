package sqs

import (
	"context"
	"testing"

	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiMock struct {
	mock.Mock
	ReceiveMessageOut *awssqs.ReceiveMessageOutput
}

func (m *apiMock) GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
	args := m.Called(aws.ToString(params.QueueName))
	return mockOut[awssqs.GetQueueUrlOutput](args)
}

func (m *apiMock) ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error) {
	args := m.Called(params)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	if m.ReceiveMessageOut != nil {
		return m.ReceiveMessageOut, nil
	}
	return &awssqs.ReceiveMessageOutput{}, nil
}

func (m *apiMock) ChangeMessageVisibility(ctx context.Context, params *awssqs.ChangeMessageVisibilityInput, optFns ...func(*awssqs.Options)) (*awssqs.ChangeMessageVisibilityOutput, error) {
	args := m.Called(aws.ToString(params.ReceiptHandle), params.VisibilityTimeout)
	return mockOut[awssqs.ChangeMessageVisibilityOutput](args)
}

func (m *apiMock) SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	args := m.Called(aws.ToString(params.QueueUrl), aws.ToString(params.MessageBody))
	return mockOut[awssqs.SendMessageOutput](args)
}

func (m *apiMock) DeleteMessage(ctx context.Context, params *awssqs.DeleteMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteMessageOutput, error) {
	args := m.Called(aws.ToString(params.ReceiptHandle))
	return mockOut[awssqs.DeleteMessageOutput](args)
}

func (m *apiMock) PurgeQueue(ctx context.Context, params *awssqs.PurgeQueueInput, optFns ...func(*awssqs.Options)) (*awssqs.PurgeQueueOutput, error) {
	args := m.Called(aws.ToString(params.QueueUrl))
	return mockOut[awssqs.PurgeQueueOutput](args)
}

func mockOut[T any](args mock.Arguments) (*T, error) {
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return new(T), nil
}

func newTestQueue(t *testing.T) (*Queue, *apiMock) {
	t.Helper()
	api := &apiMock{}
	q := &Queue{api: api, name: "q", url: "http://sqs/q", dlqURL: "http://sqs/q-deadletter", pollWait: 1}
	return q, api
}

const msgBody = `{"id":"6f1d5f0e-3c61-4a59-9d4b-1f2a3b4c5d6e","type":2,"data":null}`

func TestNewQueue(t *testing.T) {
	api := &getURLMock{urls: map[string]string{"q": "http://sqs/q", "q-deadletter": "http://sqs/dlq"}}
	q, err := NewQueue(context.Background(), api, "q", "q-deadletter")
	require.Nil(t, err)
	assert.Equal(t, "http://sqs/q", q.url)
	assert.Equal(t, "http://sqs/dlq", q.dlqURL)
	assert.Equal(t, int32(20), q.pollWait)
}

func TestNewQueue_Fail(t *testing.T) {
	_, err := NewQueue(context.Background(), &getURLMock{}, "", "q-deadletter")
	assert.NotNil(t, err)
	_, err = NewQueue(context.Background(), &getURLMock{}, "q", "")
	assert.NotNil(t, err)
	_, err = NewQueue(context.Background(), &getURLMock{urls: map[string]string{"q": "http://sqs/q"}}, "q", "q-deadletter")
	assert.NotNil(t, err)
}

func TestReceive(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("ReceiveMessage", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		in := args.Get(0).(*awssqs.ReceiveMessageInput)
		assert.Equal(t, int32(10), in.MaxNumberOfMessages)
		assert.Equal(t, int32(1), in.WaitTimeSeconds)
	})
	api.ReceiveMessageOut = &awssqs.ReceiveMessageOutput{Messages: []types.Message{
		{Body: aws.String(msgBody), ReceiptHandle: aws.String("h1")},
		{Body: aws.String("olia"), ReceiptHandle: aws.String("h2")},
		{Body: aws.String(msgBody), ReceiptHandle: aws.String("h3")},
	}}
	api.On("ChangeMessageVisibility", "h1", int32(1800)).Return(nil)
	api.On("ChangeMessageVisibility", "h3", int32(1800)).Return(errors.New("olia"))

	res, err := q.ReceiveMessage(context.Background(), 10)

	require.Nil(t, err)
	require.Equal(t, 1, len(res))
	assert.Equal(t, "h1", res[0].Handle)
	assert.Equal(t, messages.Minute, res[0].Message.Type)
	api.AssertNumberOfCalls(t, "ChangeMessageVisibility", 2)
}

func TestReceive_Fail(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("ReceiveMessage", mock.Anything).Return(errors.New("olia"))
	_, err := q.ReceiveMessage(context.Background(), 1)
	assert.NotNil(t, err)
}

func TestComplete(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("DeleteMessage", "h").Return(nil)
	assert.Nil(t, q.CompleteMessage(context.Background(), "h"))
}

func TestComplete_StaleHandle(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("DeleteMessage", "h").Return(&types.ReceiptHandleIsInvalid{Message: aws.String("invalid")})
	assert.Nil(t, q.CompleteMessage(context.Background(), "h"))
}

func TestComplete_Fail(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("DeleteMessage", "h").Return(errors.New("olia"))
	assert.NotNil(t, q.CompleteMessage(context.Background(), "h"))
}

func TestDeadletter(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("SendMessage", "http://sqs/q-deadletter", mock.Anything).Return(nil)
	api.On("DeleteMessage", "h").Return(nil)
	err := q.DeadletterMessage(context.Background(), messages.NewWorkerMessage(uuid.New(), messages.TaskType(9)), "h")
	assert.Nil(t, err)
	api.AssertExpectations(t)
}

func TestDeadletter_SendFail(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("SendMessage", "http://sqs/q-deadletter", mock.Anything).Return(errors.New("olia"))
	err := q.DeadletterMessage(context.Background(), messages.NewWorkerMessage(uuid.New(), messages.Minute), "h")
	assert.NotNil(t, err)
	api.AssertNotCalled(t, "DeleteMessage", mock.Anything)
}

func TestPublish(t *testing.T) {
	q, api := newTestQueue(t)
	id := uuid.MustParse("6f1d5f0e-3c61-4a59-9d4b-1f2a3b4c5d6e")
	api.On("SendMessage", "http://sqs/q", msgBody).Return(nil)
	assert.Nil(t, q.PublishMessage(context.Background(), messages.NewWorkerMessage(id, messages.Minute)))
	api.AssertExpectations(t)
}

func TestAbandon(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("ChangeMessageVisibility", "h", int32(0)).Return(nil)
	assert.Nil(t, q.AbandonMessage(context.Background(), "h"))
	api.AssertExpectations(t)
}

func TestPurge(t *testing.T) {
	q, api := newTestQueue(t)
	api.On("PurgeQueue", "http://sqs/q").Return(nil)
	assert.Nil(t, q.PurgeMessages(context.Background()))
}

type getURLMock struct {
	apiMock
	urls map[string]string
}

func (m *getURLMock) GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
	if u, ok := m.urls[aws.ToString(params.QueueName)]; ok {
		return &awssqs.GetQueueUrlOutput{QueueUrl: aws.String(u)}, nil
	}
	return nil, errors.New("no queue")
}
