package worker

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/audio"
	"github.com/airenas/minutego/internal/pkg/awsutil"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/airenas/minutego/internal/pkg/heartbeat"
	"github.com/airenas/minutego/internal/pkg/kafka"
	"github.com/airenas/minutego/internal/pkg/llm"
	"github.com/airenas/minutego/internal/pkg/minutes"
	"github.com/airenas/minutego/internal/pkg/mongo"
	"github.com/airenas/minutego/internal/pkg/queue"
	"github.com/airenas/minutego/internal/pkg/rabbit"
	"github.com/airenas/minutego/internal/pkg/speakers"
	"github.com/airenas/minutego/internal/pkg/sqs"
	"github.com/airenas/minutego/internal/pkg/storage"
	"github.com/airenas/minutego/internal/pkg/transcription"
	"github.com/airenas/minutego/internal/pkg/transcription/awstranscribe"
	"github.com/airenas/minutego/internal/pkg/transcription/httpstt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var appName = "Minute Worker Service"

var sttTimeout = 20 * time.Minute

var rootCmd = &cobra.Command{
	Use:   "workerService",
	Short: appName,
	Long:  `Worker service transcribes recordings and generates minutes from the queue messages`,
	Run:   run,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge worker queues",
	Run:   purge,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.AddCommand(purgeCmd)
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)
	ctx := context.Background()
	s, err := config.Load(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't load config")

	awsCfg, err := awsutil.NewConfig(ctx, s)
	cmdapp.CheckOrPanic(err, "Can't init aws")

	data := &ServiceData{Workers: s.Workers, Queues: s.Queue}
	var closeQueues func()
	data.QueueFactory, closeQueues, err = newQueueFactory(ctx, s, awsCfg)
	cmdapp.CheckOrPanic(err, "Can't init queue")
	defer closeQueues()

	mongoSessionProvider, err := mongo.NewSessionProvider(s.Mongo.URL)
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.Transcriptions, err = mongo.NewTranscriptionStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init transcription store")
	data.Minutes, err = mongo.NewMinuteStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init minute store")
	data.Chats, err = mongo.NewChatStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init chat store")

	bots, err := llm.NewFactory(s.LLM)
	cmdapp.CheckOrPanic(err, "Can't init llm")
	data.Speakers = speakers.NewProcessor(speakers.NewLLMPredictor(bots))
	data.Generator, err = minutes.NewGenerator(bots, minutes.NewTemplates(), s.Minutes)
	cmdapp.CheckOrPanic(err, "Can't init minutes generator")
	data.ChatResponder, err = minutes.NewChatResponder(bots)
	cmdapp.CheckOrPanic(err, "Can't init chat responder")

	data.Transcriber, err = newTranscriber(s, awsCfg)
	cmdapp.CheckOrPanic(err, "Can't init transcriber")

	hbStore, err := newHeartbeatStore(ctx, s)
	cmdapp.CheckOrPanic(err, "Can't init heartbeat")
	data.NewBeater = func(id string) Beater { return heartbeat.NewBeater(hbStore, id) }

	notifier, err := newNotifier(s)
	cmdapp.CheckOrPanic(err, "Can't init kafka")
	defer notifier.Close()
	data.Notifier = notifier

	data.StopCh = cmdapp.NewSignalChannel()
	fc, err := StartWorkerService(data)
	cmdapp.CheckOrPanic(err, "Can't start worker service")

	go func() {
		err := StartWebServer(&WebData{Port: s.Port, Store: hbStore, Timeout: s.Heartbeat.Timeout})
		cmdapp.CheckOrPanic(err, "Can't start web server")
	}()
	<-fc
	cmdapp.Log.Info("Exiting")
}

func purge(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	s, err := config.Load(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't load config")
	awsCfg, err := awsutil.NewConfig(ctx, s)
	cmdapp.CheckOrPanic(err, "Can't init aws")
	f, closeQueues, err := newQueueFactory(ctx, s, awsCfg)
	cmdapp.CheckOrPanic(err, "Can't init queue")
	defer closeQueues()
	cmdapp.CheckOrPanic(Purge(ctx, f, s.Queue), "Can't purge")
}

func newQueueFactory(ctx context.Context, s *config.Settings, awsCfg aws.Config) (queue.Factory, func(), error) {
	switch s.Queue.Service {
	case "rabbit":
		f, err := rabbit.NewQueueFactory(s.MessageServer.URL, s.MessageServer.User, s.MessageServer.Pass,
			s.MessageServer.QueuePrefix)
		if err != nil {
			return nil, nil, err
		}
		return f.Create, f.Close, nil
	case "sqs":
		api := awsutil.NewSQS(awsCfg)
		return func(name, deadletter string) (queue.Service, error) {
			q, err := sqs.NewQueue(ctx, api, name, deadletter)
			if err != nil {
				return nil, err
			}
			return q.WithPollWait(int32(s.Queue.PollWait.Seconds())), nil
		}, func() {}, nil
	}
	return nil, nil, errors.Errorf("Unknown queue service '%s'", s.Queue.Service)
}

func newTranscriber(s *config.Settings, awsCfg aws.Config) (*transcription.Manager, error) {
	st, err := storage.NewS3(awsutil.NewS3(awsCfg, s), s.AWS.DataBucket)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init storage")
	}
	duration, err := audio.NewDurationClient(s.Duration.URL)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init duration client")
	}
	at, err := awstranscribe.New(awsutil.NewTranscribe(awsCfg), st, awstranscribe.Config{Environment: s.Environment,
		Bucket: s.AWS.DataBucket, AccountID: s.AWS.AccountID, Region: s.AWS.Region})
	if err != nil {
		return nil, err
	}
	hs, err := httpstt.New(s.HTTPSTT.URL, s.HTTPSTT.MaxAudioLength, sttTimeout)
	if err != nil {
		return nil, err
	}
	return transcription.NewManager(s.Transcription.Services, []transcription.Adapter{at, hs}, st, duration)
}

func newHeartbeatStore(ctx context.Context, s *config.Settings) (heartbeat.Store, error) {
	if s.Heartbeat.Store == "redis" {
		c, err := heartbeat.NewRedisClient(ctx, s.Redis.URL)
		if err != nil {
			return nil, err
		}
		st, err := heartbeat.NewRedisStore(c, 2*s.Heartbeat.Timeout)
		if err != nil {
			return nil, err
		}
		pid := heartbeat.ProcessID()
		cmdapp.Log.Infof("Heartbeat process id: %s", pid)
		return st.WithProcess(pid), nil
	}
	return heartbeat.NewFileStore(s.Heartbeat.Dir)
}

type notifier interface {
	Notifier
	Close() error
}

func newNotifier(s *config.Settings) (notifier, error) {
	if len(s.Kafka.Brokers) == 0 {
		cmdapp.Log.Info("Kafka is not configured, status events are disabled")
		return kafka.NoOp{}, nil
	}
	return kafka.NewWriter(s.Kafka.Brokers, s.Kafka.Topic)
}
