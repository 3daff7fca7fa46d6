package ratelimit

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/types"
)

var errNoClientIP = errors.New("could not determine client ip")

// Rate limiter middleware config keyed on the client IP.
//
// Only requests using onlyMethod are counted when it is not nil. A store error answers 429 only
// when the store fails closed.
func NewRedisLimiter(
	rdb *redis.Client,
	limiterKey string,
	perMinute int64,
	failOpen bool,
	onlyMethod *string,
) middleware.RateLimiterConfig {
	l := logger.Logger
	l.Debug(
		"Setting up rate limiter with Redis",
		"redis",
		rdb.Options().Addr,
		"limiterKey",
		limiterKey,
		"perMinute",
		perMinute,
	)

	store := NewRedisLimitStore(RedisLimiterConfig{
		PerMinute:   perMinute,
		RedisClient: rdb,
		LimiterKey:  limiterKey,
		FailOpen:    failOpen,
	})

	skipper := middleware.DefaultSkipper
	if onlyMethod != nil {
		skipper = func(c echo.Context) bool {
			return c.Request().Method != *onlyMethod
		}
	}

	return middleware.RateLimiterConfig{
		Skipper: skipper,
		Store:   store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			ip := c.RealIP()
			if ip == "" {
				return "", errNoClientIP
			}
			return ip, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l.WarnContext(c.Request().Context(), "could not identify client for rate limiting", logger.Err(err))
			return c.JSON(http.StatusForbidden, types.StringError("forbidden"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			if err != nil {
				l.ErrorContext(
					c.Request().Context(),
					"rate limiter store failed",
					"identifier",
					identifier,
					logger.Err(err),
				)
			}
			return c.JSON(http.StatusTooManyRequests, types.StringError("too many requests"))
		},
	}
}
