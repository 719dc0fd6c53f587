package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jkarani/campusgate/internal/app/models/dto"
)

type bucket struct {
	tokens int
	last   time.Time
}

// SimpleTokenBucket rate-limits requests per client IP. Tokens refill at a
// fixed per-minute rate up to the configured burst capacity.
type SimpleTokenBucket struct {
	mu       sync.Mutex
	state    map[string]*bucket
	capacity int
	rate     float64
}

// NewSimpleTokenBucket creates a limiter with the given refill rate
// (tokens per minute) and burst capacity.
func NewSimpleTokenBucket(ratePerMinute, capacity int) *SimpleTokenBucket {
	return &SimpleTokenBucket{
		state:    make(map[string]*bucket),
		capacity: capacity,
		rate:     float64(ratePerMinute),
	}
}

func (t *SimpleTokenBucket) allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	b, ok := t.state[key]
	if !ok {
		t.state[key] = &bucket{tokens: t.capacity - 1, last: now}
		return true
	}

	elapsed := now.Sub(b.last)
	refill := int(elapsed.Minutes() * t.rate)
	if refill > 0 {
		b.tokens += refill
		if b.tokens > t.capacity {
			b.tokens = t.capacity
		}
		b.last = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// GinMiddleware rejects requests over the limit with 429.
func (t *SimpleTokenBucket) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.allow(c.ClientIP()) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Too many requests")
			errorDetail = errorDetail.WithDetails("Scan rate limit exceeded, try again shortly")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}
