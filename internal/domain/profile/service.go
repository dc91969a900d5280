package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/normalize"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Service) SaveProfile(ctx context.Context, p *Profile) error {
	if p.UserID == uuid.Nil {
		return apperrors.Validation("user_id is required")
	}
	if len(p.Name) > 120 {
		return apperrors.Validation("name must be at most 120 characters")
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 200) {
		return apperrors.Validation("age must be between 0 and 200")
	}
	if p.Gender != nil {
		g := normalize.Name(*p.Gender)
		if len(g) > 10 {
			return apperrors.Validation("gender must be at most 10 characters")
		}
		p.Gender = &g
	}
	if p.ExistingConditions == nil {
		p.ExistingConditions = normalize.TermSet{}
	}
	if p.Allergies == nil {
		p.Allergies = normalize.TermSet{}
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
