package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdle is how long a client may stay silent before its bucket is dropped.
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client address. Buckets idle for longer than limiterIdle
// are evicted, at most once per limiterIdle.
type ipRateLimiter struct {
	ips       map[string]*clientLimiter
	mu        sync.Mutex
	r         rate.Limit
	b         int
	now       func() time.Time
	lastSweep time.Time
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{ips: make(map[string]*clientLimiter), r: r, b: b, now: time.Now, lastSweep: time.Now()}
}

func (l *ipRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdle {
		for k, c := range l.ips {
			if now.Sub(c.lastSeen) >= limiterIdle {
				delete(l.ips, k)
			}
		}
		l.lastSweep = now
	}
	c, exists := l.ips[ip]
	if !exists {
		c = &clientLimiter{Limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = c
	}
	c.lastSeen = now
	return c.Limiter
}

func (l *ipRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// allow reports whether the client of the request may be served now.
func (l *ipRateLimiter) allow(r *http.Request) bool {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return l.limiter(ip).Allow()
}
