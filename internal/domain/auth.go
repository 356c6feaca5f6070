package domain

// TokenType is the scheme label returned with every issued token.
const TokenType = "Bearer"

// CallerIdentity is the caller resolved for a single request from a
// validated token. It is never persisted.
type CallerIdentity struct {
	SubjectID string
	Username  string
}

// TokenValidation is the outcome of a successful token validation.
type TokenValidation struct {
	Valid     bool
	SubjectID string
	Username  string
}
