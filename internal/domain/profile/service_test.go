package profile

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/normalize"
)

// -- Mock Repository --

type mockRepo struct {
	profiles map[uuid.UUID]*Profile
}

func newMockRepo() *mockRepo {
	return &mockRepo{profiles: make(map[uuid.UUID]*Profile)}
}

func (m *mockRepo) Get(_ context.Context, userID uuid.UUID) (*Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperrors.NotFound("user %s not found", userID)
	}
	return p, nil
}

func (m *mockRepo) Upsert(_ context.Context, p *Profile) error {
	now := time.Now()
	if existing, ok := m.profiles[p.UserID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.profiles[p.UserID] = p
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestService_GetProfile_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetProfile(context.Background(), uuid.New())
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_SaveProfile(t *testing.T) {
	svc, repo := newTestService()
	p := &Profile{
		UserID:             uuid.New(),
		Name:               "Asha",
		Age:                intPtr(34),
		Gender:             strPtr(" Female "),
		ExistingConditions: normalize.Parse("Diabetes, GERD"),
	}
	if err := svc.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.profiles[p.UserID]
	if stored.GenderValue() != "female" {
		t.Errorf("expected normalized gender, got %q", stored.GenderValue())
	}
	if stored.Allergies == nil {
		t.Error("expected empty allergy set, got nil")
	}
	if !stored.ExistingConditions.Contains("gerd") {
		t.Errorf("expected gerd in conditions, got %v", stored.ExistingConditions)
	}
}

func TestService_SaveProfile_Validation(t *testing.T) {
	svc, _ := newTestService()
	tests := []struct {
		name string
		p    Profile
	}{
		{"missing user", Profile{Name: "x"}},
		{"negative age", Profile{UserID: uuid.New(), Age: intPtr(-1)}},
		{"age too high", Profile{UserID: uuid.New(), Age: intPtr(201)}},
		{"gender too long", Profile{UserID: uuid.New(), Gender: strPtr("unspecified-long")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			err := svc.SaveProfile(context.Background(), &p)
			if apperrors.TypeOf(err) != apperrors.TypeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProfile_DecodesStringOrList(t *testing.T) {
	var p Profile
	body := `{"name":"A","existing_conditions":"Hypertension, asthma ,","allergies":["NSAID"," Penicillin","nsaid"]}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := p.ExistingConditions.Strings(); len(got) != 2 || got[0] != "hypertension" || got[1] != "asthma" {
		t.Errorf("unexpected conditions %v", got)
	}
	if got := p.Allergies.Strings(); len(got) != 2 || got[0] != "nsaid" || got[1] != "penicillin" {
		t.Errorf("unexpected allergies %v", got)
	}
}

func TestProfile_Snapshot(t *testing.T) {
	p := &Profile{Name: "B"}
	s := p.Snapshot()
	if s.Conditions == nil || s.Allergies == nil {
		t.Error("expected non-nil lists in snapshot")
	}
}
