package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// errorHandler is the single place errors become responses. Rich errors
// carry their status in Code; anything unrecognized is logged with
// context and surfaced as an opaque 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		s.logger.Error("unhandled error: %v path=%s", err, c.Path())
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}

	status := statusFor(richErr)

	if status >= http.StatusInternalServerError {
		s.logger.Error("internal error: %s category=%s path=%s", richErr.Message, richErr.Category, c.Path())
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": richErr.Message})
}

func statusFor(err *errors.Error) int {
	if err.Code >= http.StatusBadRequest {
		return err.Code
	}

	switch err.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// invalidInput turns a payload validation failure into a 400 with the
// validator's message as the caller-facing error.
func invalidInput(err error) error {
	return errors.New(err.Error(), errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode("validation_failed")
}

// malformedBody is returned when the request body cannot be decoded.
func malformedBody(err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
		WithCode(errors.CodeBadRequest).
		WithTextCode("malformed_body")
}
