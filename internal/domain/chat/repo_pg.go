package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthintel/healthintel/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var dialect = goqu.Dialect("postgres")

const table = "chat_history"

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

func (r *repoPG) Append(ctx context.Context, t *Turn) error {
	t.ID = uuid.New()
	meta, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	query, args, err := dialect.Insert(table).Rows(goqu.Record{
		"id":         t.ID.String(),
		"user_id":    t.UserID.String(),
		"role":       t.Role,
		"content":    t.Content,
		"session_id": t.SessionID,
		"metadata":   meta,
		"created_at": t.CreatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build chat insert: %w", err)
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	return nil
}

func (r *repoPG) History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*Turn, error) {
	where := []exp.Expression{goqu.C("user_id").Eq(userID.String())}
	if sessionID != "" {
		where = append(where, goqu.C("session_id").Eq(sessionID))
	}
	query, args, err := dialect.From(table).
		Select("id", "user_id", "role", "content", "session_id", "metadata", "created_at").
		Where(where...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(limit)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build chat history: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := []*Turn{}
	for rows.Next() {
		var (
			t    Turn
			meta []byte
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.SessionID, &meta, &t.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &t.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		turns = append(turns, &t)
	}
	return turns, rows.Err()
}
