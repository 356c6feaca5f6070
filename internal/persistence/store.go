package persistence

import "context"

// Tx gives keyed access to a store inside one exclusive-access scope. Writes
// become visible to others only when the enclosing Update returns nil.
type Tx[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Put(ctx context.Context, key string, value V) error
	Remove(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]V, error)
}

// Store is a keyed collection shared by all concurrent requests of a service.
//
// Get and List hold access for a single read. Update holds exclusive access
// for the whole read-decide-write sequence run by fn, so check-then-act is
// atomic. If fn returns an error nothing it wrote is kept.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	List(ctx context.Context) ([]V, error)
	Update(ctx context.Context, fn func(tx Tx[V]) error) error
}

// NewStore returns the Postgres-backed store for bucket when pg is enabled,
// otherwise a process-local one.
func NewStore[V any](pg *Postgres, bucket string) Store[V] {
	if pg.Enabled() {
		return NewPostgresStore[V](pg.PoolHandle(), bucket)
	}
	return NewMemoryStore[V]()
}
