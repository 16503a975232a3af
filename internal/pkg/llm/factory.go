package llm

import (
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/pkg/errors"
)

//Kind selects the model
type Kind int

const (
	// Fast is a cheap model for simple tasks
	Fast Kind = iota
	// Best is a strong model for generation and chat
	Best
)

//Factory creates a new chatbot for each job
type Factory struct {
	fast, best         Completer
	hallucinationCheck bool
}

//NewFactory creates clients for fast and best models
func NewFactory(s config.LLMSettings) (*Factory, error) {
	fast, err := NewClient(s.Fast, s.Timeout)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init fast llm")
	}
	best, err := NewClient(s.Best, s.Timeout)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init best llm")
	}
	return &Factory{fast: fast, best: best, hallucinationCheck: s.HallucinationCheck}, nil
}

//New returns chatbot with empty history
func (f *Factory) New(kind Kind) *ChatBot {
	if kind == Best {
		return NewChatBot(f.best, f.hallucinationCheck)
	}
	return NewChatBot(f.fast, f.hallucinationCheck)
}
