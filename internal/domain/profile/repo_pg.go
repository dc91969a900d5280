package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthintel/healthintel/internal/platform/db"
	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/normalize"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var dialect = goqu.Dialect("postgres")

const table = "user_profiles"

var cols = []interface{}{"user_id", "name", "age", "gender", "existing_conditions", "allergies", "created_at", "updated_at"}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query, args, err := dialect.From(table).
		Select(cols...).
		Where(goqu.C("user_id").Eq(userID.String())).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}

	var p Profile
	err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(
		&p.UserID, &p.Name, &p.Age, &p.Gender, &p.ExistingConditions, &p.Allergies, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *repoPG) Upsert(ctx context.Context, p *Profile) error {
	conditions, err := termsJSON(p.ExistingConditions)
	if err != nil {
		return err
	}
	allergies, err := termsJSON(p.Allergies)
	if err != nil {
		return err
	}

	query, args, err := dialect.Insert(table).
		Rows(goqu.Record{
			"user_id":             p.UserID.String(),
			"name":                p.Name,
			"age":                 p.Age,
			"gender":              p.Gender,
			"existing_conditions": conditions,
			"allergies":           allergies,
		}).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{
			"name":                goqu.L("EXCLUDED.name"),
			"age":                 goqu.L("EXCLUDED.age"),
			"gender":              goqu.L("EXCLUDED.gender"),
			"existing_conditions": goqu.L("EXCLUDED.existing_conditions"),
			"allergies":           goqu.L("EXCLUDED.allergies"),
			"updated_at":          goqu.L("NOW()"),
		})).
		Returning("created_at", "updated_at").
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build profile upsert: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// termsJSON encodes a term list for a JSONB column. goqu expands Go slices
// into value lists, so the list travels as raw JSON bytes.
func termsJSON(t normalize.TermSet) ([]byte, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode terms: %w", err)
	}
	return b, nil
}
