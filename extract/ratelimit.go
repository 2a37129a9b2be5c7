package extract

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/lessondump"
	"golang.org/x/time/rate"
)

var _ lessondump.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces page opens per host with a token bucket per host and
// no bursting.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter returns a DomainLimiter allowing rps opens per second to
// each host.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the host's limiter allows another request.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// Host returns the host of rawURL, or rawURL itself when it does not parse.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
