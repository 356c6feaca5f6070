package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-mesh/internal/auth"
	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/events"
	"github.com/spec-kit/auth-mesh/internal/repository"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

var errPasswordHash = errors.New("password hash failed")

// IssuedToken is the result of a successful login.
type IssuedToken struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

// AuthService coordinates registration, login and token validation.
type AuthService struct {
	credentials repository.CredentialRepository
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenAuthority
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Credentials repository.CredentialRepository
	Hasher      *auth.PasswordHasher
	Tokens      *auth.TokenAuthority
	Dispatcher  events.Dispatcher
	Clock       func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies, logger *zap.Logger) *AuthService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		credentials: deps.Credentials,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         now,
	}
}

// Register creates a new identity. Uniqueness checks, hashing and the insert
// happen in one exclusive scope of the credential store.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.Identity, error) {
	identity, err := s.credentials.Register(ctx, username, email, func() (*domain.Identity, error) {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errPasswordHash, err)
		}
		return &domain.Identity{
			SubjectID:    uuid.NewString(),
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    s.now().UTC(),
		}, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrUsernameTaken):
		return nil, apperrors.New(apperrors.AuthUsernameTaken)
	case errors.Is(err, repository.ErrEmailTaken):
		return nil, apperrors.New(apperrors.AuthEmailTaken)
	case errors.Is(err, errPasswordHash):
		return nil, apperrors.Wrap(apperrors.AuthPasswordHashFailure, err)
	default:
		return nil, apperrors.Wrap(apperrors.AuthInternalError, err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: identity.SubjectID,
		Username:  identity.Username,
	})
	return identity, nil
}

// Login checks credentials and issues a token. An unknown username and a
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*IssuedToken, error) {
	identity, ok, err := s.credentials.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.AuthInternalError, err)
	}
	if !ok {
		s.loginFailed(ctx, username, events.ReasonUnknownUser)
		return nil, apperrors.New(apperrors.AuthInvalidCredentials)
	}

	match, err := s.hasher.Verify(identity.PasswordHash, password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.AuthInternalError, err)
	}
	if !match {
		s.loginFailed(ctx, username, events.ReasonWrongPassword)
		return nil, apperrors.New(apperrors.AuthInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.Issue(identity.SubjectID, identity.Username)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.AuthTokenIssuanceError, err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventLoginSucceeded,
		SubjectID: identity.SubjectID,
		Username:  identity.Username,
	})
	return &IssuedToken{
		Token:     token,
		TokenType: domain.TokenType,
		ExpiresIn: auth.TokenTTL,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate checks a token's signature and expiry. It reads no stored state,
// so repeated calls with the same token agree until it expires.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.TokenValidation, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			s.tokenRejected(ctx, events.ReasonExpired)
			return nil, apperrors.Wrap(apperrors.AuthTokenExpired, err)
		}
		s.tokenRejected(ctx, events.ReasonMalformed)
		return nil, apperrors.Wrap(apperrors.AuthInvalidToken, err)
	}

	return &domain.TokenValidation{
		Valid:     true,
		SubjectID: claims.Subject,
		Username:  claims.Username,
	}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string) {
	s.publish(ctx, events.Event{
		Type:     events.EventLoginFailed,
		Username: username,
		Payload:  events.LoginFailedPayload{Reason: reason},
	})
}

func (s *AuthService) tokenRejected(ctx context.Context, reason string) {
	s.publish(ctx, events.Event{
		Type:    events.EventTokenRejected,
		Payload: events.TokenRejectedPayload{Reason: reason},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("audit event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
