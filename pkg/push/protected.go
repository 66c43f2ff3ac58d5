package push

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ProtectedGateway wraps a Gateway with a circuit breaker and optional send pacing.
// Only whole-request failures count against the breaker; per-token failures are
// normal delivery outcomes.
type ProtectedGateway struct {
	next    Gateway
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// ProtectionConfig controls the breaker and pacing of a ProtectedGateway
type ProtectionConfig struct {
	Name        string
	MaxFailures uint32        // consecutive request failures before opening
	OpenTimeout time.Duration // how long the breaker stays open before probing
	RatePerSec  float64       // 0 disables pacing
}

// DefaultProtectionConfig returns the settings used in production
func DefaultProtectionConfig(name string) ProtectionConfig {
	return ProtectionConfig{
		Name:        name,
		MaxFailures: 3,
		OpenTimeout: time.Minute,
	}
}

// NewProtected creates a ProtectedGateway around next
func NewProtected(next Gateway, cfg ProtectionConfig, logger *zap.Logger) *ProtectedGateway {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("push gateway breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	pg := &ProtectedGateway{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
	if cfg.RatePerSec > 0 {
		burst := int(cfg.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		pg.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return pg
}

// SendMulticast waits for the limiter, then forwards through the breaker.
// An open breaker is reported as an error without contacting the provider.
func (p *ProtectedGateway) SendMulticast(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("push rate limiter: %w", err)
		}
	}

	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.next.SendMulticast(ctx, tokens, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("push gateway %s: %w", p.breaker.Name(), err)
	}
	return out.([]Result), nil
}

// State reports the breaker state ("closed", "half-open" or "open")
func (p *ProtectedGateway) State() string {
	return p.breaker.State().String()
}
