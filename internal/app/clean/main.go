package clean

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/awsutil"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/airenas/minutego/internal/pkg/mongo"
	"github.com/airenas/minutego/internal/pkg/storage"
	"github.com/heptiolabs/healthcheck"
	"github.com/spf13/cobra"
)

var appName = "Minute Data Clean Service"

var rootCmd = &cobra.Command{
	Use:   "cleanService",
	Short: appName,
	Long:  `Service finalises stale jobs and deletes expired data`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
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

	data := &ServiceData{Port: s.Port}
	mongoSessionProvider, err := mongo.NewSessionProvider(s.Mongo.URL)
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()

	store, err := mongo.NewCleaner(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init mongo cleaner")

	awsCfg, err := awsutil.NewConfig(ctx, s)
	cmdapp.CheckOrPanic(err, "Can't init aws")
	st, err := storage.NewS3(awsutil.NewS3(awsCfg, s), s.AWS.DataBucket)
	cmdapp.CheckOrPanic(err, "Can't init storage")

	cleaner, err := newCleanerImpl(store, st, s.Clean.StaleAfter)
	cmdapp.CheckOrPanic(err, "Can't init cleaner")
	data.cleaner = cleaner

	data.health = healthcheck.NewHandler()
	data.health.AddReadinessCheck("mongo", mongoSessionProvider.Healthy)
	cmdapp.CheckOrPanic(initMetrics(data), "Can't init metrics")

	td := &timerServiceData{runEvery: s.Clean.RunEvery, job: cleaner,
		qChan: make(chan struct{}), workWaitChan: make(chan struct{})}
	cmdapp.CheckOrPanic(startCleanTimer(td), "Can't start timer")

	go func() {
		sig := <-cmdapp.NewSignalChannel()
		cmdapp.Log.Infof("Got signal %v. Stopping", sig)
		close(td.qChan)
	}()
	go func() {
		cmdapp.CheckOrPanic(StartWebServer(data), "Can't start web server")
	}()
	<-td.workWaitChan
}
