package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/service"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// ============================================================
// Create forms — POST /v1/transactions, POST /v1/budgets
// ============================================================

// formResponse carries the created row plus the refreshed list snapshot
// so the page updates in one round trip.
type formResponse struct {
	Created  any              `json:"created"`
	Snapshot *domain.Snapshot `json:"snapshot"`
}

func createTransactionHandler(svc *service.TransactionsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		var form service.TransactionForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, snap, err := svc.Create(ctx, sid, form)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, formResponse{Created: created, Snapshot: snap})
	}
}

func upsertBudgetHandler(svc *service.BudgetsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/budgets")
		defer span.End()

		sid, ok := state.SessionID(ctx)
		if !ok {
			writeError(w, http.StatusInternalServerError, "session not established")
			return
		}

		var form service.BudgetForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		saved, snap, err := svc.Upsert(ctx, sid, form)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, formResponse{Created: saved, Snapshot: snap})
	}
}
