package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// generous enough for a student resubmitting a few times, tight enough
// that nobody hammers the pdf extractor
const (
	generateRatePerSecond = 1
	generateBurst         = 5
)

type clientLimiters struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	limiter, ok := c.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(generateRatePerSecond, generateBurst)
		c.limiters[key] = limiter
	}
	return limiter
}

func perClientLimiter() func(http.Handler) http.Handler {
	clients := &clientLimiters{limiters: map[string]*rate.Limiter{}}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !clients.get(host).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
