package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"

	"go.uber.org/zap"
)

type stubRag struct {
	answer string
	err    error
	asked  []domain.RagQuestion

	// block, when set, holds the call until released; started signals
	// the call is in flight.
	started chan struct{}
	release chan struct{}
}

func (s *stubRag) Ask(ctx context.Context, q domain.RagQuestion) (*domain.RagAnswer, error) {
	s.asked = append(s.asked, q)
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.RagAnswer{Answer: s.answer}, nil
}

func newAssistant(t *testing.T, rag *stubRag) *AssistantService {
	t.Helper()
	mgr := newTestState(t, "s1")
	return NewAssistantService(rag, mgr, observability.NewMetrics(), zap.NewNop())
}

func TestAssistantTranscriptStartsWithWelcome(t *testing.T) {
	svc := newAssistant(t, &stubRag{})

	tr, err := svc.Transcript("s1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(tr.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(tr.Messages))
	}
	if tr.Messages[0].Role != domain.RoleAssistant || tr.Messages[0].Content != domain.WelcomeMessage {
		t.Fatalf("first message = %+v", tr.Messages[0])
	}
}

func TestAssistantAskAppendsPair(t *testing.T) {
	rag := &stubRag{answer: "You spent most on groceries."}
	svc := newAssistant(t, rag)

	tr, err := svc.Ask(context.Background(), "s1", "  Where did my money go?  ")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(tr.Messages) != 3 {
		t.Fatalf("messages = %d, want welcome + pair", len(tr.Messages))
	}
	if tr.Messages[1].Role != domain.RoleUser || tr.Messages[1].Content != "Where did my money go?" {
		t.Fatalf("user entry = %+v", tr.Messages[1])
	}
	if tr.Messages[2].Role != domain.RoleAssistant || tr.Messages[2].Content != rag.answer {
		t.Fatalf("assistant entry = %+v", tr.Messages[2])
	}
	if rag.asked[0].UserID != 1 {
		t.Fatalf("question user id = %d, want session user 1", rag.asked[0].UserID)
	}
}

func TestAssistantAskFailureAppendsApology(t *testing.T) {
	rag := &stubRag{err: errors.New("rag down")}
	svc := newAssistant(t, rag)

	tr, err := svc.Ask(context.Background(), "s1", "anything unusual?")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if len(tr.Messages) != 3 {
		t.Fatalf("messages = %d, want welcome + pair", len(tr.Messages))
	}
	if tr.Messages[2].Content != domain.ApologyMessage {
		t.Fatalf("assistant entry = %q, want apology", tr.Messages[2].Content)
	}
	if tr.Pending {
		t.Fatal("transcript still pending after completion")
	}
}

func TestAssistantRejectsSecondQuestionWhilePending(t *testing.T) {
	rag := &stubRag{answer: "done", started: make(chan struct{}), release: make(chan struct{})}
	svc := newAssistant(t, rag)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Ask(context.Background(), "s1", "first question")
		done <- err
	}()
	<-rag.started

	_, err := svc.Ask(context.Background(), "s1", "second question")
	var busy *domain.ErrConversationBusy
	if !errors.As(err, &busy) {
		t.Fatalf("err = %v, want ErrConversationBusy", err)
	}

	close(rag.release)
	if err := <-done; err != nil {
		t.Fatalf("first Ask: %v", err)
	}

	// The rejected question must leave the transcript untouched.
	tr, err := svc.Transcript("s1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(tr.Messages) != 3 {
		t.Fatalf("messages = %d, want welcome + one pair", len(tr.Messages))
	}
	if len(rag.asked) != 1 {
		t.Fatalf("upstream asked %d times, want 1", len(rag.asked))
	}
}

func TestAssistantRejectsEmptyQuestion(t *testing.T) {
	svc := newAssistant(t, &stubRag{})

	_, err := svc.Ask(context.Background(), "s1", "   ")
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
