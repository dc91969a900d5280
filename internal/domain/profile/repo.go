package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores user profiles. Get returns an apperrors NotFound error
// when no profile exists.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
