package worker

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/heartbeat"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//WebData keeps data for the health and metrics endpoint
type WebData struct {
	Port    int
	Store   heartbeat.Store
	Timeout time.Duration
}

//StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *WebData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	portStr := strconv.Itoa(data.Port)
	err := http.ListenAndServe(":"+portStr, NewRouter(data))
	if err != nil {
		return errors.Wrap(err, "Can't start HTTP listener at port "+portStr)
	}
	return nil
}

//NewRouter creates the router for HTTP service
func NewRouter(data *WebData) *mux.Router {
	router := mux.NewRouter()
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	h := healthcheck.NewHandler()
	if data.Store != nil {
		h.AddReadinessCheck("workers", workersCheck(data.Store, data.Timeout))
	}
	router.Methods("GET").Path("/live").HandlerFunc(h.LiveEndpoint)
	router.Methods("GET").Path("/ready").HandlerFunc(h.ReadyEndpoint)
	return router
}

func workersCheck(store heartbeat.Store, timeout time.Duration) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ok, msg := heartbeat.Check(ctx, store, timeout)
		if !ok {
			return errors.New(msg)
		}
		return nil
	}
}
