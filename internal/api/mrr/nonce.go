package mrr

import (
	"fmt"
	"sync"
	"time"
)

// NonceSource yields the x-api-nonce value for each request.
// Implementations must never return the same or a smaller value twice.
type NonceSource interface {
	Next() string
}

// ClockNonce renders wall-clock time as decimal seconds with microsecond
// precision. When the clock has not advanced since the previous call the
// value is bumped by one microsecond, so concurrent callers still get
// strictly increasing nonces.
type ClockNonce struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64 // microseconds since the epoch
}

// NewClockNonce creates a nonce source reading from now. A nil now uses time.Now.
func NewClockNonce(now func() time.Time) *ClockNonce {
	if now == nil {
		now = time.Now
	}
	return &ClockNonce{now: now}
}

// Next returns the next nonce.
func (n *ClockNonce) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	us := n.now().UnixMicro()
	if us <= n.last {
		us = n.last + 1
	}
	n.last = us
	return formatNonce(us)
}

func formatNonce(us int64) string {
	return fmt.Sprintf("%d.%06d", us/1_000_000, us%1_000_000)
}

// processNonce is shared by every Client that doesn't set its own source,
// since the server's replay window is per key and not per client value.
var processNonce = NewClockNonce(nil)
