package errorutil

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind classifies a failure and knows how it is rendered on the wire.
type Kind interface {
	Code() string
	HTTPStatus() int
	Message() string
}

// DomainError standardizes application errors.
type DomainError struct {
	Kind Kind
	Err  error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind.Code(), e.Err)
	}
	return e.Kind.Code()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError without an underlying cause.
func New(kind Kind) error {
	return &DomainError{Kind: kind}
}

// Wrap constructs a DomainError carrying the internal cause. The cause is
// kept for logs and never rendered to clients.
func Wrap(kind Kind, err error) error {
	return &DomainError{Kind: kind, Err: err}
}

// KindOf extracts the kind of the first DomainError in err's chain.
func KindOf(err error) (Kind, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

// ToDomainError converts generic errors to DomainError, classifying anything
// unknown as fallback.
func ToDomainError(err error, fallback Kind) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{Kind: fallback, Err: err}
}

// Body is the JSON shape of every error response.
type Body struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BodyFor renders the fixed client-facing body for kind.
func BodyFor(kind Kind) Body {
	return Body{Status: strconv.Itoa(kind.HTTPStatus()), Message: kind.Message()}
}

type kindEntry struct {
	code    string
	status  int
	message string
}
