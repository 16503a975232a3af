package rabbit

import (
	"sync"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/utils"
	"github.com/streadway/amqp"

	"github.com/pkg/errors"
)

//ChannelProvider provides amqp channel
type ChannelProvider struct {
	url     string
	qPrefix string
	conn    *amqp.Connection
	ch      *amqp.Channel
	m       sync.Mutex // struct field mutex
}

type runOnChannelFunc func(*amqp.Channel) error

//NewChannelProvider initializes channel provider
func NewChannelProvider(url, user, pass, prefix string) (*ChannelProvider, error) {
	if url == "" {
		return nil, errors.New("No broker url")
	}
	if user != "" && pass == "" {
		return nil, errors.New("No broker pass")
	}
	return &ChannelProvider{url: brokerURL(url, user, pass), qPrefix: prefix}, nil
}

func brokerURL(url, user, pass string) string {
	res := "amqp://"
	if user != "" {
		res = res + user + ":" + pass + "@"
	}
	return res + url
}

//QueueName returns queue name with prefix
func (pr *ChannelProvider) QueueName(name string) string {
	if pr.qPrefix == "" || name == "" {
		return name
	}
	return pr.qPrefix + "_" + name
}

//Channel returns cached channel or tries to connect to rabbit broker
func (pr *ChannelProvider) Channel() (*amqp.Channel, error) {
	pr.m.Lock()
	defer pr.m.Unlock()

	if pr.ch != nil {
		return pr.ch, nil
	}
	cmdapp.Log.Infof("Dial %s", utils.URLToLog(pr.url))
	conn, err := amqp.Dial(pr.url)
	if err != nil {
		return nil, errors.Wrap(err, "Can't connect to rabbit broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		defer conn.Close()
		return nil, errors.Wrap(err, "Can't create channel")
	}
	pr.conn = conn
	pr.ch = ch
	return pr.ch, nil
}

//RunOnChannelWithRetry invokes method on channel, reconnects once on failure
func (pr *ChannelProvider) RunOnChannelWithRetry(f runOnChannelFunc) error {
	ch, err := pr.Channel()
	if err != nil {
		return errors.Wrap(err, "Can't init channel")
	}
	err = f(ch)
	if err != nil {
		cmdapp.Log.Infof("Retry opening channel")
		pr.Close()
		ch, err = pr.Channel()
		if err != nil {
			return errors.Wrap(err, "Can't init channel")
		}
		err = f(ch)
	}
	return err
}

//Close finalizes ChannelProvider
func (pr *ChannelProvider) Close() {
	pr.m.Lock()
	defer pr.m.Unlock()

	if pr.ch != nil {
		defer pr.ch.Close()
	}
	if pr.conn != nil {
		defer pr.conn.Close()
	}
	pr.ch = nil
	pr.conn = nil
}
