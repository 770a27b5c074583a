package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// statusForError resolves the HTTP status for a failed upstream call.
func statusForError(err error) int {
	var circuitOpen *domain.ErrCircuitOpen
	var upstream *domain.ErrUpstream
	switch {
	case errors.As(err, &circuitOpen):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validation *domain.ErrValidation
	var notFound *domain.ErrNotFound
	var busy *domain.ErrConversationBusy
	var circuitOpen *domain.ErrCircuitOpen
	var upstream *domain.ErrUpstream
	var notInit *domain.ErrStateNotInitialized

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &busy):
		logger.Debug("conversation busy")
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &upstream):
		logger.Warn("upstream error",
			zap.String("operation", upstream.Operation),
			zap.Int("status", upstream.Status),
			zap.String("message", upstream.Message))
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &notInit):
		logger.Error("session state not initialized", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
