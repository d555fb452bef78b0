package client

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	reconnectDelay       = 5 * time.Second
	maxReconnectAttempts = 3
)

// ReconnectPolicy governs how the client retries the realtime channel: a
// fixed delay between attempts and a hard cap on consecutive failures. Once
// the cap is hit the client stays Disconnected until an external
// connectivity signal calls Reset.
type ReconnectPolicy struct {
	bo       backoff.BackOff
	attempts int
	max      int
}

func NewReconnectPolicy() *ReconnectPolicy {
	return &ReconnectPolicy{
		bo:  backoff.NewConstantBackOff(reconnectDelay),
		max: maxReconnectAttempts,
	}
}

// Next returns the delay before the next attempt and whether an attempt is
// still allowed. Each allowed call counts one attempt.
func (p *ReconnectPolicy) Next() (time.Duration, bool) {
	if p.attempts >= p.max {
		return 0, false
	}
	p.attempts++
	return p.bo.NextBackOff(), true
}

// Exhausted reports whether the attempt budget is spent.
func (p *ReconnectPolicy) Exhausted() bool {
	return p.attempts >= p.max
}

// Reset restarts the attempt counter, e.g. after a successful connect or a
// network-online transition.
func (p *ReconnectPolicy) Reset() {
	p.attempts = 0
	p.bo.Reset()
}
