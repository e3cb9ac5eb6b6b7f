package jsonrpc

import (
	"time"

	"golang.org/x/time/rate"
)

// ConfigLimit is the admission policy for a single method: a sustained rate
// in requests per second plus a burst capacity. The zero value means
// unlimited.
type ConfigLimit struct {
	Rate  float64 `toml:"Rate" json:"rate"`
	Burst int     `toml:"Burst" json:"burst"`
}

// Unlimited reports whether the limit places no restriction on the method.
func (l ConfigLimit) Unlimited() bool {
	return l.Rate <= 0
}

// MethodLimits maps method names to independent token-bucket limiters. The
// map is populated once at startup and read-only thereafter; each limiter's
// consume operation is safe with respect to concurrent callers.
type MethodLimits struct {
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

// NewMethodLimits returns an empty limiter set.
func NewMethodLimits() *MethodLimits {
	return &MethodLimits{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Set installs a token-bucket limiter for the given method. Unlimited
// configs install nothing, leaving the method unrestricted.
func (m *MethodLimits) Set(method string, limit ConfigLimit) {
	if limit.Unlimited() {
		return
	}
	burst := limit.Burst
	if burst <= 0 {
		burst = 1
	}
	m.limiters[method] = rate.NewLimiter(rate.Limit(limit.Rate), burst)
}

// Allow consumes one token from the method's limiter and reports whether the
// request is within quota. Methods with no configured limiter are always
// allowed, as is everything when m is nil.
func (m *MethodLimits) Allow(method string) bool {
	if m == nil {
		return true
	}
	limiter, ok := m.limiters[method]
	if !ok {
		return true
	}
	return limiter.AllowN(m.now(), 1)
}
