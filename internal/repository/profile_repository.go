package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/persistence"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository defines persistence access for user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error)
	Delete(ctx context.Context, userID string) error
	GetByID(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
}

type profileRepository struct {
	store persistence.Store[domain.Profile]
}

// NewProfileRepository wraps a key-value store.
func NewProfileRepository(store persistence.Store[domain.Profile]) ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return r.store.Update(ctx, func(tx persistence.Tx[domain.Profile]) error {
		if _, exists, err := tx.Get(ctx, profile.UserID); err != nil {
			return err
		} else if exists {
			return ErrProfileExists
		}
		return tx.Put(ctx, profile.UserID, *profile)
	})
}

func (r *profileRepository) Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	var updated domain.Profile
	err := r.store.Update(ctx, func(tx persistence.Tx[domain.Profile]) error {
		current, exists, err := tx.Get(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrProfileNotFound
		}
		patch.Apply(&current)
		updated = current
		return tx.Put(ctx, userID, current)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Update(ctx, func(tx persistence.Tx[domain.Profile]) error {
		removed, err := tx.Remove(ctx, userID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrProfileNotFound
		}
		return nil
	})
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, ok, err := r.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}
