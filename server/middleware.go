package server

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/xid/wuid"
	"golang.org/x/time/rate"

	"github.com/oarkflow/micromap/storage/memory"
)

// HeaderRequestID is set on every response, generated when absent.
const HeaderRequestID = "X-Request-Id"

func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = wuid.New().String()
		}
		c.Locals("request_id", id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

const (
	// limiterMaxIdle is how long a client IP may stay quiet before its
	// limiter is eligible for pruning.
	limiterMaxIdle = 3 * time.Minute
	// limiterSweepAt triggers a prune whenever the pool grows past it.
	limiterSweepAt = 1024
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// limiterPool hands out one token bucket per client IP and prunes buckets
// whose clients have gone idle, so the pool stays bounded on a public
// listener.
type limiterPool struct {
	clients   *memory.Map[string, *clientLimiter]
	perSecond float64
	burst     int
	maxIdle   time.Duration
	sweepAt   int
}

func newLimiterPool(perSecond float64, burst int) *limiterPool {
	if burst <= 0 {
		burst = 1
	}
	return &limiterPool{
		clients:   memory.New[string, *clientLimiter](),
		perSecond: perSecond,
		burst:     burst,
		maxIdle:   limiterMaxIdle,
		sweepAt:   limiterSweepAt,
	}
}

func (p *limiterPool) get(ip string, now time.Time) *rate.Limiter {
	cl, ok := p.clients.Get(ip)
	if !ok {
		fresh := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(p.perSecond), p.burst)}
		fresh.lastSeen.Store(now.UnixNano())
		// GetOrSet keeps simultaneous first requests from one IP on a
		// single bucket.
		cl, _ = p.clients.GetOrSet(ip, fresh)
		if p.clients.Size() > p.sweepAt {
			p.prune(now)
		}
	}
	cl.lastSeen.Store(now.UnixNano())
	return cl.limiter
}

func (p *limiterPool) prune(now time.Time) {
	cutoff := now.Add(-p.maxIdle).UnixNano()
	p.clients.ForEach(func(ip string, cl *clientLimiter) bool {
		if cl.lastSeen.Load() < cutoff {
			p.clients.Del(ip)
		}
		return true
	})
}

// rateLimit throttles each client IP with a token bucket.
func rateLimit(perSecond float64, burst int) fiber.Handler {
	pool := newLimiterPool(perSecond, burst)
	return func(c *fiber.Ctx) error {
		if !pool.get(c.IP(), time.Now()).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
