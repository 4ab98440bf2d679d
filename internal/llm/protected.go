package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

type ProtectedConfig struct {
	Timeout          time.Duration // hard timeout per call
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // allow N trial calls in half-open
}

type circuitState string

const (
	stateClosed   circuitState = "closed"
	stateOpen     circuitState = "open"
	stateHalfOpen circuitState = "half_open"
)

// ProtectedGenerator guards a Generator with a timeout and a circuit breaker.
// It never retries; callers see each failure immediately.
type ProtectedGenerator struct {
	inner Generator
	cfg   ProtectedConfig
	now   func() time.Time
	mu    sync.Mutex

	state               circuitState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewProtectedGenerator(inner Generator, cfg ProtectedConfig) *ProtectedGenerator {
	//defaults
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &ProtectedGenerator{
		inner: inner,
		cfg:   cfg,
		now:   time.Now,
		state: stateClosed,
	}
}

func (g *ProtectedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	// fail-fast gate
	if !g.allowRequest() {
		return "", ErrCircuitOpen
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	reply, err := g.inner.Generate(callCtx, prompt)

	g.afterRequest(err)

	return reply, err
}

func (g *ProtectedGenerator) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return string(g.state)
}

func (g *ProtectedGenerator) allowRequest() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case stateClosed:
		return true
	case stateOpen:
		// cooldown has passed? move to half open
		if g.now().Sub(g.openedAt) >= g.cfg.Cooldown {
			g.state = stateHalfOpen
			g.halfOpenInFlight = 1
			return true
		}
		return false
	case stateHalfOpen:
		if g.halfOpenInFlight >= g.cfg.HalfOpenMaxCalls {
			return false
		}
		g.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (g *ProtectedGenerator) afterRequest(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// half-open call just finished
	if g.state == stateHalfOpen && g.halfOpenInFlight > 0 {
		g.halfOpenInFlight--
	}

	if !tripsBreaker(err) {
		// success (or a caller-side error) => close circuit and reset counters
		g.consecutiveFailures = 0
		g.state = stateClosed
		return
	}

	g.consecutiveFailures++

	// if half-open failed, reopen immediately
	if g.state == stateHalfOpen {
		g.state = stateOpen
		g.openedAt = g.now()
		return
	}

	if g.consecutiveFailures >= g.cfg.FailureThreshold {
		g.state = stateOpen
		g.openedAt = g.now()
	}
}

// tripsBreaker is true for errors that say the provider is unhealthy.
// Missing keys and 4xx rejections of the request itself do not count.
func tripsBreaker(err error) bool {
	if err == nil || errors.Is(err, ErrMissingAPIKey) || errors.Is(err, context.Canceled) {
		return false
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Retryable()
	}

	return true
}
