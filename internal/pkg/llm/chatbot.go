package llm

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

//Completer does a single chat completion call
type Completer interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	ChatJSON(ctx context.Context, messages []Message, res interface{}) (string, error)
}

//ChatBot keeps conversation history and retries failed calls
type ChatBot struct {
	client             Completer
	messages           []Message
	newBackOff         func() backoff.BackOff
	hallucinationCheck bool
}

const maxRetries = 5

//NewChatBot creates chatbot with exponential retry
func NewChatBot(client Completer, hallucinationCheck bool) *ChatBot {
	return &ChatBot{client: client, newBackOff: newExpBackOff, hallucinationCheck: hallucinationCheck}
}

func newExpBackOff() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     time.Second,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         time.Minute,
		MaxElapsedTime:      5 * time.Minute,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

//Chat sends messages after the history, appends both to the history on success
func (cb *ChatBot) Chat(ctx context.Context, messages []Message) (string, error) {
	var res string
	err := cb.retry(ctx, func() error {
		var err error
		res, err = cb.client.Chat(ctx, cb.withHistory(messages))
		return err
	})
	if err != nil {
		return "", err
	}
	cb.remember(messages, res)
	return res, nil
}

//StructuredChat sends messages without history and decodes json answer into res
func (cb *ChatBot) StructuredChat(ctx context.Context, messages []Message, res interface{}) error {
	return cb.structured(ctx, messages, messages, res)
}

func (cb *ChatBot) structured(ctx context.Context, send, messages []Message, res interface{}) error {
	var ans string
	err := cb.retry(ctx, func() error {
		var err error
		ans, err = cb.client.ChatJSON(ctx, send, res)
		return err
	})
	if err != nil {
		return err
	}
	cb.remember(messages, ans)
	return nil
}

type hallucinations struct {
	Hallucinations []api.Hallucination `json:"hallucinations"`
}

//HallucinationCheck asks the model to review its previous answer, returns empty list if check is disabled
func (cb *ChatBot) HallucinationCheck(ctx context.Context) ([]api.Hallucination, error) {
	if !cb.hallucinationCheck {
		return []api.Hallucination{}, nil
	}
	var res hallucinations
	msgs := HallucinationMessages()
	if err := cb.structured(ctx, cb.withHistory(msgs), msgs, &res); err != nil {
		return nil, errors.Wrap(err, "Can't check hallucinations")
	}
	if res.Hallucinations == nil {
		return []api.Hallucination{}, nil
	}
	return res.Hallucinations, nil
}

//History returns conversation messages
func (cb *ChatBot) History() []Message {
	return cb.messages
}

func (cb *ChatBot) withHistory(messages []Message) []Message {
	res := make([]Message, 0, len(cb.messages)+len(messages))
	res = append(res, cb.messages...)
	return append(res, messages...)
}

func (cb *ChatBot) remember(messages []Message, answer string) {
	cb.messages = append(cb.messages, messages...)
	cb.messages = append(cb.messages, Message{Role: RoleAssistant, Content: answer})
}

func (cb *ChatBot) retry(ctx context.Context, f func() error) error {
	op := func() error {
		err := f()
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Retryable() {
				return backoff.Permanent(err)
			}
			cmdapp.Log.Warnf("LLM call failed: %v", err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(cb.newBackOff(), maxRetries), ctx))
}
