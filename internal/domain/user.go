package domain

import "time"

// Identity is a registered credential holder. PasswordHash is a one-way
// verifier; the plaintext is never stored.
type Identity struct {
	SubjectID    string    `json:"subject_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
