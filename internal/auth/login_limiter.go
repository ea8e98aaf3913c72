package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultLoginAttemptsPerMin = 5
	loginLimitKeyPrefix        = "fitcoach-login||"
)

var ErrTooManyLoginAttempts = errors.New("too many login attempts")

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// LoginLimiter caps login attempts per device; shared kiosks sit in public gyms.
type LoginLimiter struct {
	limiter   RateLimiter
	deviceID  string
	perMinute int
}

func NewLoginLimiter(limiter RateLimiter, deviceID string, perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = DefaultLoginAttemptsPerMin
	}
	return &LoginLimiter{
		limiter:   limiter,
		deviceID:  deviceID,
		perMinute: perMinute,
	}
}

// Check lets the attempt through when the limiter itself fails.
func (l *LoginLimiter) Check(ctx context.Context) error {
	res, err := l.limiter.Allow(ctx, loginLimitKeyPrefix+l.deviceID, redis_rate.PerMinute(l.perMinute))
	if err != nil {
		log.Errorf("login limiter: %s", err)
		return nil
	}
	if res.Allowed > 0 {
		return nil
	}
	return fmt.Errorf("%w: retry after %.0f seconds", ErrTooManyLoginAttempts, res.RetryAfter.Seconds())
}
