package errorutil

import "net/http"

// AuthKind enumerates failures surfaced by the authentication service.
type AuthKind uint8

const (
	AuthUsernameTaken AuthKind = iota
	AuthEmailTaken
	AuthPasswordHashFailure
	AuthInvalidCredentials
	AuthTokenIssuanceError
	AuthInvalidToken
	AuthTokenExpired
	AuthInvalidPayload
	AuthInternalError
	authKindCount
)

var authKinds = [...]kindEntry{
	AuthUsernameTaken:       {"USERNAME_TAKEN", http.StatusConflict, "Username already exists"},
	AuthEmailTaken:          {"EMAIL_TAKEN", http.StatusConflict, "Email already registered"},
	AuthPasswordHashFailure: {"PASSWORD_HASH_FAILURE", http.StatusInternalServerError, "Failed to hash password"},
	AuthInvalidCredentials:  {"INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid username or password"},
	AuthTokenIssuanceError:  {"TOKEN_ISSUANCE_ERROR", http.StatusInternalServerError, "Failed to generate token"},
	AuthInvalidToken:        {"INVALID_TOKEN", http.StatusUnauthorized, "Invalid or malformed token"},
	AuthTokenExpired:        {"TOKEN_EXPIRED", http.StatusUnauthorized, "Token has expired"},
	AuthInvalidPayload:      {"INVALID_PAYLOAD", http.StatusBadRequest, "Invalid request payload"},
	AuthInternalError:       {"INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error"},
}

// Every AuthKind needs a table entry; this fails to compile otherwise.
var _ = [1]struct{}{}[len(authKinds)-int(authKindCount)]

func (k AuthKind) entry() kindEntry {
	if int(k) < len(authKinds) {
		return authKinds[k]
	}
	return authKinds[AuthInternalError]
}

func (k AuthKind) Code() string    { return k.entry().code }
func (k AuthKind) HTTPStatus() int { return k.entry().status }
func (k AuthKind) Message() string { return k.entry().message }

// ProfileKind enumerates failures surfaced by the user profile service.
type ProfileKind uint8

const (
	ProfileMissingAuthHeader ProfileKind = iota
	ProfileInvalidAuthHeader
	ProfileInvalidToken
	ProfileUserNotFound
	ProfileUserAlreadyExists
	ProfileAuthServiceUnavailable
	ProfileForbidden
	ProfileInvalidPayload
	ProfileInternalError
	profileKindCount
)

var profileKinds = [...]kindEntry{
	ProfileMissingAuthHeader:      {"MISSING_AUTH_HEADER", http.StatusUnauthorized, "Missing authorization header"},
	ProfileInvalidAuthHeader:      {"INVALID_AUTH_HEADER", http.StatusUnauthorized, "Invalid authorization header format"},
	ProfileInvalidToken:           {"INVALID_TOKEN", http.StatusUnauthorized, "Invalid or expired token"},
	ProfileUserNotFound:           {"USER_NOT_FOUND", http.StatusNotFound, "User not found"},
	ProfileUserAlreadyExists:      {"USER_ALREADY_EXISTS", http.StatusConflict, "User already exists"},
	ProfileAuthServiceUnavailable: {"AUTH_SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "Auth service unavailable"},
	ProfileForbidden:              {"FORBIDDEN", http.StatusForbidden, "Forbidden - you can only access your own data"},
	ProfileInvalidPayload:         {"INVALID_PAYLOAD", http.StatusBadRequest, "Invalid request payload"},
	ProfileInternalError:          {"INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error"},
}

var _ = [1]struct{}{}[len(profileKinds)-int(profileKindCount)]

func (k ProfileKind) entry() kindEntry {
	if int(k) < len(profileKinds) {
		return profileKinds[k]
	}
	return profileKinds[ProfileInternalError]
}

func (k ProfileKind) Code() string    { return k.entry().code }
func (k ProfileKind) HTTPStatus() int { return k.entry().status }
func (k ProfileKind) Message() string { return k.entry().message }

// GatewayKind enumerates failures raised by the gateway itself. Upstream
// errors are relayed verbatim and never reclassified.
type GatewayKind uint8

const (
	GatewayAuthServiceUnavailable GatewayKind = iota
	GatewayUserServiceUnavailable
	GatewayInternalError
	gatewayKindCount
)

var gatewayKinds = [...]kindEntry{
	GatewayAuthServiceUnavailable: {"AUTH_SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "Auth service unavailable"},
	GatewayUserServiceUnavailable: {"USER_SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "User service unavailable"},
	GatewayInternalError:          {"INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error"},
}

var _ = [1]struct{}{}[len(gatewayKinds)-int(gatewayKindCount)]

func (k GatewayKind) entry() kindEntry {
	if int(k) < len(gatewayKinds) {
		return gatewayKinds[k]
	}
	return gatewayKinds[GatewayInternalError]
}

func (k GatewayKind) Code() string    { return k.entry().code }
func (k GatewayKind) HTTPStatus() int { return k.entry().status }
func (k GatewayKind) Message() string { return k.entry().message }
