package quota

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Middleware denies generation requests once the caller's daily allowance is
// spent. A request only counts against the allowance when it succeeds, so a
// blocked or failed generation does not cost the user anything.
func Middleware(store Store, limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()

		remaining, err := store.Remaining(c.Request.Context(), ip)
		if err != nil {
			// A broken quota backend should not take generation down.
			log.Printf("quota check error for %s: %v", ip, err)
			c.Next()
			return
		}
		if remaining <= 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Daily quota exceeded.",
				"limit":     limit,
				"remaining": 0,
			})
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			if err := store.Incr(c.Request.Context(), ip); err != nil {
				log.Printf("quota incr error for %s: %v", ip, err)
			}
		}
	}
}

// StatusHandler reports the caller's allowance for the day.
func StatusHandler(store Store, limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return func(c *gin.Context) {
		remaining, err := store.Remaining(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"limit":     limit,
			"remaining": remaining,
			"allowed":   remaining > 0,
		})
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func (rl *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *ipRateLimiter) cleanup() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// BurstLimiter rejects rapid-fire requests from one IP before they reach the
// billed model API. Separate from the daily allowance, which is about spend,
// not rate.
func BurstLimiter(rps float64, burst int) gin.HandlerFunc {
	rl := &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.cleanup()

	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down."})
			return
		}
		c.Next()
	}
}
