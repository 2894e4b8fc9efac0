package webhooks

import (
	"time"

	"github.com/goliatone/go-ecm-events/core"
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

func RetryPolicyFromConfig(cfg core.DeliveryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		Multiplier:  cfg.BackoffMultiplier,
		MaxDelay:    cfg.MaxDelay,
	}
}

// NextDelay returns the wait before retrying after the given 1-based failed
// attempt. The first failure waits the base delay, each further failure
// multiplies it, capped at the maximum.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 10 * time.Second
	}
	multiplier := p.Multiplier
	if multiplier <= 1 {
		multiplier = 2
	}
	maximum := p.MaxDelay
	if maximum <= 0 {
		maximum = 5 * time.Minute
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * multiplier)
		if delay >= maximum {
			return maximum
		}
	}
	if delay > maximum {
		return maximum
	}
	return delay
}

// Exhausted reports whether the attempt budget is spent. Attempts counts
// tries already made.
func (p RetryPolicy) Exhausted(attempts int) bool {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return attempts >= maxAttempts
}
