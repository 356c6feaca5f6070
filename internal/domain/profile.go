package domain

// Profile is the user-service view of a person. It is independent of the
// Identity held by the authentication service; one may exist without the other.
type Profile struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
}

// ProfilePatch carries the optional fields of a profile update.
type ProfilePatch struct {
	FullName *string
	Bio      *string
}

// Apply copies every provided field onto p.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
}
