package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-services/internal/observability"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// errorTypeBase prefixes the type URI identifying each error category.
const errorTypeBase = "https://api.commerce.dev/errors/"

// Problem is the structured error body returned on every 4xx/5xx response.
type Problem struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail"`
	Instance  string            `json:"instance"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type problemClass struct {
	slug  string
	title string
}

var problemClasses = map[string]problemClass{
	apperror.CodeNotFound:         {"not-found", "Resource not found"},
	apperror.CodeConflict:         {"conflict", "Data conflict"},
	apperror.CodeValidationFailed: {"validation-error", "Invalid input data"},
	apperror.CodeNotPermitted:     {"operation-not-permitted", "Operation not permitted"},
	apperror.CodeUnauthorized:     {"unauthorized", "Authentication failed"},
	apperror.CodeRateLimited:      {"rate-limited", "Too many requests"},
	apperror.CodeInternal:         {"internal-server-error", "Internal Server Error"},
}

// NewErrorHandler returns the global fiber error handler. Domain errors keep
// their taxonomy; router-level fiber errors keep their status with an
// "about:blank" type; anything else becomes a generic 500 whose cause is
// only logged, never exposed.
func NewErrorHandler(serviceName string, logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	prefix := logCodePrefix(serviceName)

	return func(c *fiber.Ctx, err error) error {
		problem := Problem{
			Type:      "about:blank",
			Instance:  c.Path(),
			Service:   serviceName,
			Timestamp: time.Now().UTC(),
		}

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			// handled below
		case errors.As(err, &fiberErr):
			problem.Status = fiberErr.Code
			problem.Title = http.StatusText(fiberErr.Code)
			problem.Detail = fiberErr.Message
		default:
			appErr = apperror.From(err)
		}

		if appErr != nil {
			problem.Status = appErr.HTTPStatus
			problem.Detail = appErr.Message
			problem.Errors = appErr.Fields
			if class, ok := problemClasses[appErr.Code]; ok {
				problem.Type = errorTypeBase + class.slug
				problem.Title = class.title
			} else {
				problem.Title = http.StatusText(appErr.HTTPStatus)
			}
			if appErr.Code == apperror.CodeValidationFailed {
				logger.Warn("request validation failed",
					zap.String("log_code", prefix+"-200"),
					zap.String("path", c.Path()),
					zap.Any("errors", appErr.Fields))
			}
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("log_code", prefix+"-900"),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(appErr))
			}
		}

		if metrics != nil {
			code := "HTTP_" + http.StatusText(problem.Status)
			if appErr != nil {
				code = appErr.Code
			}
			metrics.RecordError(c.Path(), c.Method(), code)
		}

		return c.Status(problem.Status).JSON(problem)
	}
}

// logCodePrefix derives the log-code domain prefix from the service name,
// e.g. "user-service" -> "USR".
func logCodePrefix(serviceName string) string {
	switch {
	case strings.HasPrefix(serviceName, "user"):
		return "USR"
	case strings.HasPrefix(serviceName, "product"):
		return "PRD"
	default:
		return "SVC"
	}
}
