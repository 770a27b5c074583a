package domain

import "time"

// ============================================================
// Assistant conversation
// ============================================================

// Role marks the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// WelcomeMessage is the single synthetic assistant entry every transcript
// starts with.
const WelcomeMessage = "Hello! I'm Rcube, your AI finance assistant. I read from your stored transactions, budgets, anomalies, and spending segments to answer your questions. Ask me anything about your spending patterns, budget comparisons, or unusual transactions!"

// ApologyMessage is appended as the assistant turn when the RAG call
// fails, so the transcript keeps strict user/assistant alternation.
const ApologyMessage = "I apologize, but I encountered an error processing your request. Please try again."

// Message is one entry of the session-held, append-only transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RagQuestion is the body of POST /rag/ask. Only the single question and
// the active user id are sent; the server derives its own context.
type RagQuestion struct {
	UserID   int    `json:"user_id"`
	Question string `json:"question"`
}

// RagAnswer is the consumed part of the POST /rag/ask response.
type RagAnswer struct {
	Answer string `json:"answer"`
}

// Transcript is the assistant page's view of a conversation.
type Transcript struct {
	Messages []Message `json:"messages"`
	Pending  bool      `json:"pending"`
}
