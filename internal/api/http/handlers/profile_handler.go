package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/api/dto"
	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/service"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

// ProfileHandler exposes the /users routes of the profile service.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// List handles GET /users.
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	profiles, err := h.profiles.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(profiles)
}

// Create handles POST /users.
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.ProfileInvalidPayload, err)
	}
	if req.UserID == "" {
		return apperrors.New(apperrors.ProfileInvalidPayload)
	}

	profile, err := h.profiles.Create(c.UserContext(), service.ProfileInput{
		UserID:   req.UserID,
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileMutationResponse{UserID: profile.UserID, Message: "Profile created successfully"})
}

// Get handles GET /users/:id.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// Update handles PUT /users/:id.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.ProfileInvalidPayload, err)
	}

	profile, err := h.profiles.Update(c.UserContext(), c.Params("id"), domain.ProfilePatch{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileMutationResponse{UserID: profile.UserID, Message: "Profile updated successfully"})
}

// Delete handles DELETE /users/:id.
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.profiles.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.ProfileMutationResponse{UserID: id, Message: "Profile deleted successfully"})
}
