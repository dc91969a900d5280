package chat

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores chat turns. History returns newest first; an empty
// sessionID matches every session.
type Repository interface {
	Append(ctx context.Context, t *Turn) error
	History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*Turn, error)
}
