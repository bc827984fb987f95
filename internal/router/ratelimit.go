package router

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/model"
)

const staleClientAfter = 3 * time.Minute

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit throttles requests per client IP. A non-positive rate disables it.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*rateClient)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		if now.Sub(lastSweep) > staleClientAfter {
			for key, rc := range clients {
				if now.Sub(rc.lastSeen) > staleClientAfter {
					delete(clients, key)
				}
			}
			lastSweep = now
		}
		rc, ok := clients[ip]
		if !ok {
			rc = &rateClient{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)}
			clients[ip] = rc
		}
		rc.lastSeen = now
		allowed := rc.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Success: false,
				Error:   "Too many deployment requests",
			})
			return
		}
		c.Next()
	}
}
