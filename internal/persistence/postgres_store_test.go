package persistence

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap/zaptest"
)

// newTestPool connects to TEST_POSTGRES_DSN and applies the migrations, or
// skips the test when no database is available.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := RunMigrations(ctx, pool, "../../migrations", zaptest.NewLogger(t)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	bucket := "test_" + t.Name()
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM kv_entries WHERE bucket=$1`, bucket)
	})

	s := NewPostgresStore[record](pool, bucket)

	if err := s.Update(ctx, func(tx Tx[record]) error {
		return tx.Put(ctx, "a", record{ID: "a", Value: 7})
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || got.Value != 7 {
		t.Fatalf("get = %+v %v %v", got, ok, err)
	}

	sentinel := errors.New("abort")
	err = s.Update(ctx, func(tx Tx[record]) error {
		_ = tx.Put(ctx, "b", record{ID: "b"})
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %+v %v", list, err)
	}
}
