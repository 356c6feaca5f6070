package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/repository"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// ProfileService manages user profiles. Authorization is enforced by the
// HTTP layer before any of these methods run.
type ProfileService struct {
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewProfileService builds the service. A nil clock means time.Now.
func NewProfileService(profiles repository.ProfileRepository, clock func() time.Time) *ProfileService {
	if clock == nil {
		clock = time.Now
	}
	return &ProfileService{profiles: profiles, now: clock}
}

// ProfileInput is the data needed to create a profile.
type ProfileInput struct {
	UserID   string
	Username string
	Email    string
	FullName string
	Bio      string
}

func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ProfileInternalError, err)
	}
	return profiles, nil
}

func (s *ProfileService) Create(ctx context.Context, in ProfileInput) (*domain.Profile, error) {
	profile := &domain.Profile{
		UserID:    in.UserID,
		Username:  in.Username,
		Email:     in.Email,
		FullName:  in.FullName,
		Bio:       in.Bio,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, mapProfileError(err)
	}
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return profile, nil
}

// Update applies only the fields present in patch.
func (s *ProfileService) Update(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := s.profiles.Update(ctx, userID, patch)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return profile, nil
}

func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return mapProfileError(err)
	}
	return nil
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		return apperrors.New(apperrors.ProfileUserNotFound)
	case errors.Is(err, repository.ErrProfileExists):
		return apperrors.New(apperrors.ProfileUserAlreadyExists)
	default:
		return apperrors.Wrap(apperrors.ProfileInternalError, err)
	}
}
