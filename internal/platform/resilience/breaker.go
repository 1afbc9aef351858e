package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenProbes   int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenProbes:   2,
	}
}

// Breaker shields an outbound dependency: after FailureThreshold
// consecutive failures it rejects calls for OpenTimeout, then lets
// HalfOpenProbes trial calls through before closing again.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenProbes   int

	state           State
	failures        int
	openedAt        time.Time
	probesInFlight  int
	probesSucceeded int
	now             func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	defaults := DefaultBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenProbes < 1 {
		cfg.HalfOpenProbes = defaults.HalfOpenProbes
	}

	return &Breaker{
		failureThreshold: cfg.FailureThreshold,
		openTimeout:      cfg.OpenTimeout,
		halfOpenProbes:   cfg.HalfOpenProbes,
		state:            StateClosed,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed now. A nil return reserves a
// probe slot while half open; the caller must follow up with Success or
// Failure.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrOpen
		}
		b.state = StateHalfOpen
		b.probesInFlight = 0
		b.probesSucceeded = 0
	}

	if b.state == StateHalfOpen {
		if b.probesInFlight >= b.halfOpenProbes {
			return ErrOpen
		}
		b.probesInFlight++
	}
	return nil
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		if b.probesInFlight > 0 {
			b.probesInFlight--
		}
		b.probesSucceeded++
		if b.probesSucceeded >= b.halfOpenProbes && b.probesInFlight == 0 {
			b.state = StateClosed
			b.failures = 0
			b.openedAt = time.Time{}
		}
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.open()
		}
	case StateHalfOpen:
		if b.probesInFlight > 0 {
			b.probesInFlight--
		}
		b.open()
	case StateOpen:
		b.openedAt = b.now()
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.probesInFlight = 0
	b.probesSucceeded = 0
}
