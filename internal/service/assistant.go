package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/port"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// conversation is one session's assistant transcript. pending guards the
// single-outstanding-question rule.
type conversation struct {
	mu       sync.Mutex
	messages []domain.Message
	pending  bool
}

// AssistantService holds per-session assistant conversations and
// forwards questions to the retrieval endpoint. Transcripts grow only in
// user/assistant pairs; a failed call appends a fixed apology instead of
// an answer, so the pairing invariant holds either way.
type AssistantService struct {
	rag     port.RagCaller
	state   *state.Manager
	metrics *observability.Metrics
	logger  *zap.Logger

	mu    sync.Mutex
	convs map[string]*conversation

	now func() time.Time
}

func NewAssistantService(rag port.RagCaller, st *state.Manager, metrics *observability.Metrics, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		rag:     rag,
		state:   st,
		metrics: metrics,
		logger:  logger,
		convs:   make(map[string]*conversation),
		now:     time.Now,
	}
}

func (s *AssistantService) conversation(sid string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[sid]
	if !ok {
		conv = &conversation{
			messages: []domain.Message{{
				ID:        uuid.NewString(),
				Role:      domain.RoleAssistant,
				Content:   domain.WelcomeMessage,
				Timestamp: s.now(),
			}},
		}
		s.convs[sid] = conv
	}
	return conv
}

// Transcript returns the session's conversation, seeding it with the
// welcome message on first access.
func (s *AssistantService) Transcript(sid string) (*domain.Transcript, error) {
	if _, _, err := s.state.Selection(sid); err != nil {
		return nil, err
	}

	conv := s.conversation(sid)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.snapshotLocked(), nil
}

// Ask submits one question for the session's current user. While an
// answer is outstanding, further questions are rejected without touching
// the transcript. The returned transcript always reflects the completed
// exchange, apology included when the call failed.
func (s *AssistantService) Ask(ctx context.Context, sid, question string) (*domain.Transcript, error) {
	sel, _, err := s.state.Selection(sid)
	if err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &domain.ErrValidation{Message: "Question must not be empty"}
	}

	conv := s.conversation(sid)

	conv.mu.Lock()
	if conv.pending {
		conv.mu.Unlock()
		s.metrics.IncrQuestion("rejected")
		return nil, &domain.ErrConversationBusy{}
	}
	conv.pending = true
	conv.messages = append(conv.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   question,
		Timestamp: s.now(),
	})
	conv.mu.Unlock()

	answer, askErr := s.rag.Ask(ctx, domain.RagQuestion{UserID: sel.UserID, Question: question})

	reply := domain.ApologyMessage
	if askErr == nil {
		reply = answer.Answer
		s.metrics.IncrQuestion("answered")
	} else {
		s.metrics.IncrQuestion("failed")
		s.metrics.IncrUpstreamError("ask assistant")
		s.logger.Warn("assistant call failed",
			zap.Int("user_id", sel.UserID),
			zap.Error(askErr))
	}

	conv.mu.Lock()
	conv.pending = false
	conv.messages = append(conv.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: s.now(),
	})
	snap := conv.snapshotLocked()
	conv.mu.Unlock()

	return snap, askErr
}

// Discard drops a session's conversation.
func (s *AssistantService) Discard(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, sid)
}

func (c *conversation) snapshotLocked() *domain.Transcript {
	msgs := make([]domain.Message, len(c.messages))
	copy(msgs, c.messages)
	return &domain.Transcript{Messages: msgs, Pending: c.pending}
}
