package http

import (
	"context"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-services/internal/observability"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// RegisterMiddlewares attaches the global middlewares: request timeout,
// panic recovery and request logging. Errors returned by handlers propagate
// to the fiber error handler configured on the app.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(recoverMiddleware(logger))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func recoverMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperror.Internal(nil)
			}
		}()
		return c.Next()
	}
}

// RateLimiter throttles clients by IP using a fixed redis window. A redis
// outage fails open so throttling never takes the API down with it.
func RateLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "rate-limit:" + c.IP()
		ctx := c.UserContext()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			return apperror.RateLimited("Rate limit exceeded")
		}

		c.Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
		return c.Next()
	}
}
