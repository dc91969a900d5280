package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestTxFromContext_Nil(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from empty context")
	}
}

func TestTxFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBTxKey, "not-a-tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestWithTx_NoConnection(t *testing.T) {
	called := false
	err := WithTx(context.Background(), nil, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error when no database is available")
	}
	if err.Error() != "no database connection available" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if called {
		t.Error("fn must not run without a transaction")
	}
}

func TestWithTx_BeginError(t *testing.T) {
	err := WithTx(context.Background(), failingBeginner{}, func(ctx context.Context) error {
		t.Fatal("fn must not run when Begin fails")
		return nil
	})
	if err == nil || !errors.Is(err, errBeginRefused) {
		t.Fatalf("expected wrapped begin error, got %v", err)
	}
}

var errBeginRefused = errors.New("refused")

type failingBeginner struct{}

func (failingBeginner) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errBeginRefused }
