package domain

import "errors"

// Виды ошибок, на которые опираются слои выше (HTTP-коды и т.п.)
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error ошибка предметной области с видом и сообщением для клиента
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NotFound creates a not-found error
func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// InvalidInput creates an invalid-input error
func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

// Unauthorized creates an access error
func Unauthorized(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// Wrap attaches a cause to a sentinel; errors.Is matches both the sentinel and its kind
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel, Message: sentinel.Message, Err: cause}
}

// WithMessage returns an error matching sentinel with a more specific client message
func WithMessage(sentinel *Error, msg string) *Error {
	return &Error{Kind: sentinel, Message: msg}
}

// Message returns the client-facing message of a domain error, or fallback
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return fallback
}
