package healthcheck

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/airenas/minutego/internal/pkg/heartbeat"
	"github.com/spf13/cobra"
)

var appName = "Minute Worker Health Check"

var rootCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: appName,
	Long:  `Checks worker heartbeats, exits with code 1 if any worker is stale`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
}

//Execute runs the check
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := config.Load(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't load config")
	store, err := newStore(ctx, s)
	cmdapp.CheckOrPanic(err, "Can't init heartbeat store")
	os.Exit(check(ctx, store, s.Heartbeat.Timeout, os.Stdout))
}

func newStore(ctx context.Context, s *config.Settings) (heartbeat.Store, error) {
	if s.Heartbeat.Store == "redis" {
		c, err := heartbeat.NewRedisClient(ctx, s.Redis.URL)
		if err != nil {
			return nil, err
		}
		return heartbeat.NewRedisStore(c, 2*s.Heartbeat.Timeout)
	}
	return heartbeat.NewFileStore(s.Heartbeat.Dir)
}

func check(ctx context.Context, store heartbeat.Store, timeout time.Duration, w io.Writer) int {
	ok, msg := heartbeat.Check(ctx, store, timeout)
	fmt.Fprintln(w, msg)
	if !ok {
		return 1
	}
	return 0
}
