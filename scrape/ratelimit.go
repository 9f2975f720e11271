package scrape

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/menuscrape"
	"golang.org/x/time/rate"
)

var _ menuscrape.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRPS is the default request rate per domain. Ordering sites throttle
// aggressively, so the default is conservative.
const DefaultRPS = 1.0

// DomainLimiter provides per-domain rate limiting using token buckets.
// Requests to different domains proceed concurrently; requests within a
// domain are spaced by the configured rate with no bursting. Domains are
// compared case-insensitively, ignoring a leading "www.".
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second to each domain. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.TrimPrefix(strings.ToLower(domain), "www.")

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limit := rate.Limit(d.rps)
		if d.rps <= 0 {
			limit = rate.Inf
		}
		limiter = rate.NewLimiter(limit, 1)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
