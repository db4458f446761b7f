package common

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/health"
)

// ServeMetrics exposes the prometheus metrics handler and a health endpoint
// on the given port and returns a function that shuts the server down.
func ServeMetrics(port uint16, checker health.Checker) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	health.SetupHttpMux(mux, checker)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server failed")
		}
	}()
	return func() {
		if err := srv.Close(); err != nil {
			log.WithError(err).Error("error closing metrics server")
		}
	}
}
