package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/ignite-call/logger"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrDateInPast          = errors.New("date is in the past")
	ErrOutsideAvailability = errors.New("date is outside the available hours")
	ErrSlotTaken           = errors.New("slot already booked")
	ErrUnauthorized        = errors.New("unauthorized")
)

type domainError struct {
	err     error
	status  int
	message string
}

var domainErrors = []domainError{
	{ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{ErrUsernameTaken, fiber.StatusBadRequest, "Username already taken."},
	{ErrDateInPast, fiber.StatusBadRequest, "Date is in the past."},
	{ErrOutsideAvailability, fiber.StatusBadRequest, "Date is outside the available hours."},
	{ErrSlotTaken, fiber.StatusBadRequest, "There is another scheduling at the same time."},
	{ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Message: message})
}

func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "Validation failed", Errors: fields})
}

// ErrorHandler turns errors returned by handlers into JSON responses.
// Domain errors keep their status, anything unknown is logged and hidden.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JSONError(c, fe.Code, fe.Message)
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return JSONError(c, d.status, d.message)
		}
	}

	logger.Log.Error().Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("unhandled error")
	return JSONError(c, fiber.StatusInternalServerError, "Internal server error")
}
