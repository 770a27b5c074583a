package handler

import (
	"net/http"
	"strconv"

	"github.com/Raajp10/ai-expense-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Top-bar user lookup — GET /v1/users/{userId}
// ============================================================

func getUserHandler(svc *service.UserService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}")
		defer span.End()

		id, err := strconv.Atoi(chi.URLParam(r, "userId"))
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, "user id must be a positive integer")
			return
		}
		span.SetAttributes(attribute.Int("user.id", id))

		user, err := svc.GetUser(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
