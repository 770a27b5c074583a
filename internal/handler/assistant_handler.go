package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Raajp10/ai-expense-tracker/internal/service"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// ============================================================
// Assistant — /v1/assistant
// ============================================================

func transcriptHandler(svc *service.AssistantService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/assistant/transcript")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		tr, err := svc.Transcript(sid)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func askHandler(svc *service.AssistantService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/assistant/ask")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tr, err := svc.Ask(ctx, sid, req.Question)
		if err != nil {
			// A failed upstream call still produced a transcript with
			// the apology entry; return it with the gateway status.
			if tr != nil {
				writeJSON(w, statusForError(err), tr)
				return
			}
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}
