package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/utils"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one token bucket per client IP. Idle visitors are swept
// at most once per limiterIdleTTL, so a request costs O(1) between sweeps.
type limiterStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	limit     rate.Limit
	burst     int
}

func newLimiterStore(perMinute int) *limiterStore {
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &limiterStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (s *limiterStore) get(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > limiterIdleTTL {
		for key, v := range s.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(s.visitors, key)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// RateLimit allows perMinute requests per client IP with a small burst.
func RateLimit(perMinute int) fiber.Handler {
	store := newLimiterStore(perMinute)
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !store.get(ip, time.Now()).Allow() {
			logger.Log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("rate limit exceeded")
			return utils.JSONError(c, fiber.StatusTooManyRequests, "Too many requests, try again later.")
		}
		return c.Next()
	}
}
