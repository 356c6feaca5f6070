package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRejected  EventType = "token_rejected"
)

// Event represents an audit event emitted by the authentication service.
// SubjectID is empty when the caller could not be identified.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginFailedPayload payload. Reason is for operators only and never reaches
// the client, which always sees the same credentials error.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}

// TokenRejectedPayload payload.
type TokenRejectedPayload struct {
	Reason string `json:"reason"`
}

// Failure reasons carried in audit payloads.
const (
	ReasonUnknownUser   = "unknown_user"
	ReasonWrongPassword = "wrong_password"
	ReasonExpired       = "expired"
	ReasonMalformed     = "malformed"
)
