package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps JSON-encoded values in the kv_entries table, one bucket
// per store. Update serializes writers of a bucket with a transaction-scoped
// advisory lock.
type PostgresStore[V any] struct {
	pool   *pgxpool.Pool
	bucket string
}

// NewPostgresStore returns a store over the given bucket.
func NewPostgresStore[V any](pool *pgxpool.Pool, bucket string) *PostgresStore[V] {
	return &PostgresStore[V]{pool: pool, bucket: bucket}
}

func (s *PostgresStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	return s.tx(s.pool).Get(ctx, key)
}

func (s *PostgresStore[V]) List(ctx context.Context) ([]V, error) {
	return s.tx(s.pool).List(ctx)
}

func (s *PostgresStore[V]) Update(ctx context.Context, fn func(tx Tx[V]) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s update: %w", s.bucket, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, s.bucket); err != nil {
		return fmt.Errorf("lock %s: %w", s.bucket, err)
	}

	if err := fn(s.tx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s update: %w", s.bucket, err)
	}
	return nil
}

func (s *PostgresStore[V]) tx(q querier) *postgresTx[V] {
	return &postgresTx[V]{q: q, bucket: s.bucket}
}

type postgresTx[V any] struct {
	q      querier
	bucket string
}

func (t *postgresTx[V]) Get(ctx context.Context, key string) (V, bool, error) {
	const query = `
        SELECT value FROM kv_entries WHERE bucket=$1 AND key=$2`

	var zero V
	var raw []byte
	if err := t.q.QueryRow(ctx, query, t.bucket, key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, err
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, fmt.Errorf("decode %s/%s: %w", t.bucket, key, err)
	}
	return v, true, nil
}

func (t *postgresTx[V]) Put(ctx context.Context, key string, value V) error {
	const query = `
        INSERT INTO kv_entries (bucket, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (bucket, key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", t.bucket, key, err)
	}
	_, err = t.q.Exec(ctx, query, t.bucket, key, raw)
	return err
}

func (t *postgresTx[V]) Remove(ctx context.Context, key string) (bool, error) {
	const query = `
        DELETE FROM kv_entries WHERE bucket=$1 AND key=$2`

	cmd, err := t.q.Exec(ctx, query, t.bucket, key)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (t *postgresTx[V]) List(ctx context.Context) ([]V, error) {
	const query = `
        SELECT value FROM kv_entries WHERE bucket=$1 ORDER BY key`

	rows, err := t.q.Query(ctx, query, t.bucket)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []V
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v V
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", t.bucket, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
