package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/health"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/configuration"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/repository"
)

// Server exposes the log query API over HTTP.
type Server struct {
	config       *configuration.ServerConfiguration
	logs         repository.LogRepository
	density      repository.DensityRepository
	views        repository.ViewRepository
	health       health.Checker
	queryTimeout time.Duration
}

func New(
	config *configuration.ServerConfiguration,
	logs repository.LogRepository,
	density repository.DensityRepository,
	views repository.ViewRepository,
	healthChecker health.Checker,
) *Server {
	return &Server{
		config:       config,
		logs:         logs,
		density:      density,
		views:        views,
		health:       healthChecker,
		queryTimeout: config.QueryTimeout,
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/healthchecker", s.handleHealthChecker).Methods(http.MethodGet)
	router.HandleFunc("/api/density", s.handleDensity).Methods(http.MethodPost)
	router.HandleFunc("/api/logs", s.handleLogs).Methods(http.MethodPost)
	router.HandleFunc("/api/listviews", s.handleListViews).Methods(http.MethodGet)
	router.HandleFunc("/api/createview", s.handleCreateView).Methods(http.MethodPost)
	return router
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           allowCORS(s.Router(), s.config.CorsAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("Serving log query API on %s", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errs:
		return err
	}
}
