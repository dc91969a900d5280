package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthintel/healthintel/pkg/apperrors"
)

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

func NewMemoryRepository(seed ...*Profile) *MemoryRepository {
	m := &MemoryRepository{profiles: make(map[uuid.UUID]Profile, len(seed))}
	for _, p := range seed {
		_ = m.Upsert(context.Background(), p)
	}
	return m
}

func (m *MemoryRepository) Get(_ context.Context, userID uuid.UUID) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperrors.NotFound("user %s not found", userID)
	}
	return &p, nil
}

func (m *MemoryRepository) Upsert(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := m.profiles[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.profiles[p.UserID] = *p
	return nil
}
