// Package chat is the dual-mode chatbot: a health assistant and a mental
// health companion, both persisting every exchange to chat_history.
package chat

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	ModeHealth = "health"
	ModeMental = "mental"
)

// Turn maps to the chat_history table. Turns are append only.
type Turn struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"-"`
	Role      string         `db:"role" json:"role"`
	Content   string         `db:"content" json:"content"`
	SessionID string         `db:"session_id" json:"session_id"`
	Metadata  map[string]any `db:"metadata" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"timestamp"`
}

// Reply is an engine's answer before it is persisted.
type Reply struct {
	Response   string   `json:"response"`
	Confidence float64  `json:"confidence"`
	RiskFlags  []string `json:"risk_flags"`
}
