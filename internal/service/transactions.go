package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/port"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// TransactionForm carries the raw add-transaction form fields. Amount
// arrives as text and is parsed here, not in the handler.
type TransactionForm struct {
	CategoryName string `json:"category_name"`
	Amount       string `json:"amount"`
	Date         string `json:"transaction_date"`
	Description  string `json:"description"`
}

// TransactionsService lists transactions for the selection and handles
// the add-transaction form.
type TransactionsService struct {
	store port.TransactionsStore
	pageDeps
}

func NewTransactionsService(store port.TransactionsStore, st *state.Manager, snaps *Snapshots, metrics *observability.Metrics, logger *zap.Logger) *TransactionsService {
	return &TransactionsService{
		store:    store,
		pageDeps: pageDeps{state: st, snaps: snaps, metrics: metrics, logger: logger},
	}
}

// Load runs one transactions fetch cycle, decorating each row with its
// income/expense direction.
func (s *TransactionsService) Load(ctx context.Context, sid string) (*domain.Snapshot, error) {
	return s.runCycle(ctx, sid, domain.PageTransactions, func(ctx context.Context, sel domain.Selection) (any, error) {
		txs, err := s.store.ListTransactions(ctx, sel.UserID, sel.Month)
		if err != nil {
			s.metrics.IncrUpstreamError("fetch transactions")
			return nil, err
		}
		rows := make([]domain.TransactionRow, 0, len(txs))
		for _, tx := range txs {
			rows = append(rows, domain.TransactionRow{Transaction: tx, Direction: tx.Direction()})
		}
		return &domain.TransactionsData{Rows: rows}, nil
	})
}

// Create validates the form, submits it upstream, and on success runs
// exactly one follow-up list fetch so the new row appears. The session's
// current user id is attached server-side; the form never carries one.
func (s *TransactionsService) Create(ctx context.Context, sid string, form TransactionForm) (*domain.Transaction, *domain.Snapshot, error) {
	sel, _, err := s.state.Selection(sid)
	if err != nil {
		return nil, nil, err
	}

	req, err := form.validate(sel.UserID)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.store.CreateTransaction(ctx, req)
	if err != nil {
		s.metrics.IncrUpstreamError("create transaction")
		s.logger.Warn("transaction create failed",
			zap.Int("user_id", sel.UserID),
			zap.Error(err))
		return nil, nil, err
	}

	snap, err := s.Load(ctx, sid)
	if err != nil {
		// The create succeeded; report the stale list, not a failure.
		s.logger.Warn("post-create transaction refresh failed", zap.Error(err))
		return created, snap, nil
	}
	return created, snap, nil
}

func (f TransactionForm) validate(userID int) (*domain.TransactionCreate, error) {
	category := strings.TrimSpace(f.CategoryName)
	amountRaw := strings.TrimSpace(f.Amount)
	date := strings.TrimSpace(f.Date)

	var problems []string
	if category == "" {
		problems = append(problems, "category is required")
	}
	if amountRaw == "" {
		problems = append(problems, "amount is required")
	}
	if date == "" {
		problems = append(problems, "date is required")
	}
	if len(problems) > 0 {
		return nil, &domain.ErrValidation{Message: "Please fill in all fields: " + strings.Join(problems, ", ")}
	}

	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil {
		return nil, &domain.ErrValidation{Message: "Amount must be a number"}
	}

	return &domain.TransactionCreate{
		UserID:       userID,
		CategoryName: category,
		Amount:       amount,
		Date:         date,
		Description:  strings.TrimSpace(f.Description),
	}, nil
}
