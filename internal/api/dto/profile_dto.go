package dto

// CreateProfileRequest payload.
type CreateProfileRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
}

// UpdateProfileRequest carries optional fields; absent fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

// ProfileMutationResponse acknowledges create, update and delete.
type ProfileMutationResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}
