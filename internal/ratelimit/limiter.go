package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces request starts by a minimum interval and optionally
// caps in-flight requests with a permit pool. The zero interval and a
// zero permit count disable the respective behavior.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	permits  chan struct{}
}

// New builds a limiter. interval is the minimum spacing between request
// starts; maxInFlight caps concurrent requests, 0 means unlimited.
func New(interval time.Duration, maxInFlight int) *Limiter {
	l := &Limiter{interval: interval}
	if maxInFlight > 0 {
		l.permits = make(chan struct{}, maxInFlight)
	}
	return l
}

// Acquire blocks until a request may start, returning a release
// function that must be called when the request finishes.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if l.permits != nil {
		select {
		case l.permits <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := l.waitTurn(ctx); err != nil {
		if l.permits != nil {
			<-l.permits
		}
		return nil, err
	}

	release := func() {
		if l.permits != nil {
			<-l.permits
		}
	}
	return release, nil
}

// waitTurn reserves the next start slot and sleeps until it arrives.
func (l *Limiter) waitTurn(ctx context.Context) error {
	if l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
