package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/api/dto"
	"github.com/spec-kit/auth-mesh/internal/auth"
	"github.com/spec-kit/auth-mesh/internal/service"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// AuthHandler exposes register, login and validate.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.AuthInvalidPayload, err)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || len(req.Password) > auth.MaxPasswordBytes {
		return apperrors.New(apperrors.AuthInvalidPayload)
	}

	identity, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.RegisterResponse{
		UserID:   identity.SubjectID,
		Username: identity.Username,
		Message:  "User registered successfully",
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.AuthInvalidPayload, err)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.New(apperrors.AuthInvalidPayload)
	}

	issued, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:     issued.Token,
		TokenType: issued.TokenType,
		ExpiresIn: int64(issued.ExpiresIn / time.Second),
	})
}

// Validate handles POST /validate. An empty token is an invalid token, not a
// bad payload.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.AuthInvalidPayload, err)
	}

	result, err := h.auth.Validate(c.UserContext(), req.Token)
	if err != nil {
		return err
	}

	return c.JSON(dto.ValidateResponse{
		Valid:    result.Valid,
		UserID:   result.SubjectID,
		Username: result.Username,
	})
}
