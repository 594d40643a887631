package scribe

import "github.com/gofiber/fiber/v2"

// Error carries an HTTP status alongside a client-safe message. The
// server's error handler maps it to the JSON error envelope.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a missing or malformed required field.
func Validation(message string) *Error {
	return &Error{Code: fiber.StatusBadRequest, Message: message}
}

// NotFound reports a missing patient, note or file.
func NotFound(message string) *Error {
	return &Error{Code: fiber.StatusNotFound, Message: message}
}

// Upstream reports a failed external-service call. The provider error
// is retained for logs but never leaks to the client.
func Upstream(message string, err error) *Error {
	return &Error{Code: fiber.StatusBadGateway, Message: message, Err: err}
}
