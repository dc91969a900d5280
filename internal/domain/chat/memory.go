package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps turns in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	turns []*Turn
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Append(_ context.Context, t *Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.New()
	cp := *t
	m.turns = append(m.turns, &cp)
	return nil
}

func (m *MemoryRepository) History(_ context.Context, userID uuid.UUID, sessionID string, limit int) ([]*Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Turn{}
	for i := len(m.turns) - 1; i >= 0 && len(out) < limit; i-- {
		t := m.turns[i]
		if t.UserID != userID || (sessionID != "" && t.SessionID != sessionID) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}
