package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// ============================================================
// Selection & theme state — /v1/state
// ============================================================

func getStateHandler(mgr *state.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/state")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		view, err := mgr.View(sid)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// setUserHandler switches the active user. The user id arrives as
// arbitrary JSON; anything that does not parse to a positive integer is
// coerced to the fallback user rather than rejected.
func setUserHandler(mgr *state.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/state/user")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		var req struct {
			UserID any `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sel, gen, err := mgr.SetUserID(sid, coerceUserID(req.UserID))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"selection": sel, "generation": gen})
	}
}

// coerceUserID accepts the number or string the UI sends. Unparsable
// input maps to 0, which the state manager replaces with the fallback.
func coerceUserID(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return 0
}

func setMonthHandler(mgr *state.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/state/month")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		var req struct {
			Month string `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// The month is stored as given; upstream decides what a
		// malformed month means.
		sel, gen, err := mgr.SetMonth(sid, req.Month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"selection": sel, "generation": gen})
	}
}

func toggleThemeHandler(mgr *state.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/state/theme/toggle")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		theme, err := mgr.ToggleTheme(ctx, sid)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"theme": theme})
	}
}
