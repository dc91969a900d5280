package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthintel/healthintel/pkg/normalize"
)

// Profile maps to the user_profiles table. Conditions and allergies are
// normalized when decoded, whether they arrive as a comma separated string
// or a list.
type Profile struct {
	UserID             uuid.UUID         `db:"user_id" json:"user_id"`
	Name               string            `db:"name" json:"name"`
	Age                *int              `db:"age" json:"age,omitempty"`
	Gender             *string           `db:"gender" json:"gender,omitempty"`
	ExistingConditions normalize.TermSet `db:"existing_conditions" json:"existing_conditions"`
	Allergies          normalize.TermSet `db:"allergies" json:"allergies"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`
}

// GenderValue returns the normalized gender or "" when unset.
func (p *Profile) GenderValue() string {
	if p.Gender == nil {
		return ""
	}
	return normalize.Name(*p.Gender)
}

// Snapshot is the profile view embedded in health summaries.
type Snapshot struct {
	Name       string   `json:"name"`
	Age        *int     `json:"age"`
	Gender     *string  `json:"gender"`
	Conditions []string `json:"existing_conditions"`
	Allergies  []string `json:"allergies"`
}

func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		Conditions: p.ExistingConditions.Strings(),
		Allergies:  p.Allergies.Strings(),
	}
}
