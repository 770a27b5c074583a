package handler

import (
	"context"
	"net/http"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// pageResponse is the envelope for every page snapshot. On a failed
// cycle the previous snapshot is still returned alongside the error, so
// the page keeps rendering stale-but-visible data.
type pageResponse struct {
	Snapshot *domain.Snapshot `json:"snapshot"`
	Error    string           `json:"error,omitempty"`
}

type pageLoader func(ctx context.Context, sid string) (*domain.Snapshot, error)

// pageHandler runs one fetch cycle for a page and writes its snapshot.
func pageHandler(name string, load pageLoader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/pages/"+name)
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		snap, err := load(ctx, sid)
		if err != nil {
			if snap != nil {
				writeJSON(w, statusForError(err), pageResponse{Snapshot: snap, Error: err.Error()})
				return
			}
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, pageResponse{Snapshot: snap})
	}
}
