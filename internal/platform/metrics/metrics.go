package metrics

import (
	"sync/atomic"
	"time"
)

// Collector is the portal's lightweight request counter set, exposed as
// a JSON snapshot on /metrics.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	authDenied      uint64
	permDenied      uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordDenied counts guard denials: unauthenticated redirects and
// permission failures separately.
func (c *Collector) RecordDenied(forbidden bool) {
	if forbidden {
		atomic.AddUint64(&c.permDenied, 1)
		return
	}
	atomic.AddUint64(&c.authDenied, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":      atomic.LoadUint64(&c.rateLimited),
		"authDeniedTotal":       atomic.LoadUint64(&c.authDenied),
		"permissionDeniedTotal": atomic.LoadUint64(&c.permDenied),
		"avgDurationMs":         avg,
	}
}
