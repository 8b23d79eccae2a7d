package httpx

import (
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// RetryPolicy controls the retry behaviour for transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Jitter spreads each delay by up to ±Jitter of its value (capped at 1).
	Jitter  float64
	RetryIf func(resp *http.Response, err error) bool
}

// DefaultRetryPolicy implements a conservative retry strategy.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

var (
	jitterMu  sync.Mutex
	jitterRnd = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Delay returns the wait after failed attempt n (0-indexed): BaseDelay
// doubled per attempt and capped at MaxDelay, before jitter.
func (p RetryPolicy) Delay(n int) time.Duration {
	delay := p.MaxDelay
	if n < 30 {
		if d := p.BaseDelay << uint(n); d > 0 && d < p.MaxDelay {
			delay = d
		}
	}
	if p.Jitter <= 0 || delay <= 0 {
		return delay
	}
	jitterMu.Lock()
	f := jitterRnd.Float64()
	jitterMu.Unlock()
	return time.Duration(float64(delay) * (1 + (f*2-1)*math.Min(p.Jitter, 1)))
}
