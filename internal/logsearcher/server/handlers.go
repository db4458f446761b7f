package server

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/apperrors"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/model"
)

const healthMessage = "Log viewer utility"

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleHealthChecker(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Check(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: healthMessage})
}

func (s *Server) handleDensity(w http.ResponseWriter, r *http.Request) {
	var query model.LogQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query.ApplyDefaults()

	ctx, cancel := s.queryContext(r)
	defer cancel()

	counts, err := s.density.GetDensity(ctx, query.Table, query.Start, query.End)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	var query model.LogQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query.ApplyDefaults()

	ctx, cancel := s.queryContext(r)
	defer cancel()

	rows, err := s.logs.GetLogs(ctx, query.Table, query.Start, query.End, query.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	views, err := s.views.ListViews(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var query model.ViewQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query.ApplyDefaults()

	ctx, cancel := s.queryContext(r)
	defer cancel()

	if err := s.views.CreateView(ctx, query.Filter.Name, query.Columns, query.Filter.Query); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte("{}")); err != nil {
		log.WithError(err).Error("Failed to write response")
	}
}

func (s *Server) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.queryTimeout)
}

// writeError maps invalid client input to a 400 and everything else to a 500
// carrying the underlying message.
func writeError(w http.ResponseWriter, err error) {
	if apperrors.IsInvalidArgument(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.WithError(err).Error("Query failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to write response")
	}
}
