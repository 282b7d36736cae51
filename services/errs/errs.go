package errs

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error kinds shared by all services. Controllers map kinds to HTTP status
// codes; messages are safe to show to callers.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation")
)

func NotFound(msg string) error   { return fmt.Errorf("%w: %s", ErrNotFound, msg) }
func Conflict(msg string) error   { return fmt.Errorf("%w: %s", ErrConflict, msg) }
func Forbidden(msg string) error  { return fmt.Errorf("%w: %s", ErrForbidden, msg) }
func Validation(msg string) error { return fmt.Errorf("%w: %s", ErrValidation, msg) }

// Status returns the HTTP status code for a service error. Unrecognized
// errors are treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// Message strips the kind prefix for user-facing output.
func Message(err error) string {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrForbidden, ErrValidation} {
		if errors.Is(err, kind) {
			msg := err.Error()
			prefix := kind.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return "Something went wrong!"
}
