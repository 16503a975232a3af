package rabbit

import (
	"sync"

	"github.com/airenas/minutego/internal/pkg/queue"
)

//QueueFactory creates queues, each one on its own broker connection.
//A reconnect of one queue does not requeue deliveries of the others
type QueueFactory struct {
	url, user, pass, prefix string

	m         sync.Mutex
	providers []*ChannelProvider
}

//NewQueueFactory validates broker settings and returns the factory
func NewQueueFactory(url, user, pass, prefix string) (*QueueFactory, error) {
	if _, err := NewChannelProvider(url, user, pass, prefix); err != nil {
		return nil, err
	}
	return &QueueFactory{url: url, user: user, pass: pass, prefix: prefix}, nil
}

//Create declares queue on a new connection
func (f *QueueFactory) Create(name, deadletter string) (queue.Service, error) {
	pr, err := f.provider()
	if err != nil {
		return nil, err
	}
	res, err := NewQueue(pr, name, deadletter)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (f *QueueFactory) provider() (*ChannelProvider, error) {
	pr, err := NewChannelProvider(f.url, f.user, f.pass, f.prefix)
	if err != nil {
		return nil, err
	}
	f.m.Lock()
	defer f.m.Unlock()
	f.providers = append(f.providers, pr)
	return pr, nil
}

//Close closes all created connections
func (f *QueueFactory) Close() {
	f.m.Lock()
	defer f.m.Unlock()
	for _, pr := range f.providers {
		pr.Close()
	}
	f.providers = nil
}
