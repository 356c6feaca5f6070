package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/persistence"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")
)

// CredentialRepository holds registered identities keyed by username.
type CredentialRepository interface {
	// Register checks username then email uniqueness and, only if both are
	// free, calls mint and stores its result, all under one exclusive scope.
	Register(ctx context.Context, username, email string, mint func() (*domain.Identity, error)) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, bool, error)
}

type credentialRepository struct {
	store persistence.Store[domain.Identity]
}

// NewCredentialRepository wraps a key-value store.
func NewCredentialRepository(store persistence.Store[domain.Identity]) CredentialRepository {
	return &credentialRepository{store: store}
}

func (r *credentialRepository) Register(ctx context.Context, username, email string, mint func() (*domain.Identity, error)) (*domain.Identity, error) {
	var created *domain.Identity
	err := r.store.Update(ctx, func(tx persistence.Tx[domain.Identity]) error {
		if _, exists, err := tx.Get(ctx, username); err != nil {
			return err
		} else if exists {
			return ErrUsernameTaken
		}

		// Full scan: email is not a key.
		all, err := tx.List(ctx)
		if err != nil {
			return err
		}
		for _, identity := range all {
			if identity.Email == email {
				return ErrEmailTaken
			}
		}

		identity, err := mint()
		if err != nil {
			return err
		}
		if err := tx.Put(ctx, username, *identity); err != nil {
			return err
		}
		created = identity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *credentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, bool, error) {
	identity, ok, err := r.store.Get(ctx, username)
	if err != nil || !ok {
		return nil, false, err
	}
	return &identity, true, nil
}
