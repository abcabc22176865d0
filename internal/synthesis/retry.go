package synthesis

import (
	"math"
	"time"
)

// RetryPolicy holds the backoff parameters for transport retries
type RetryPolicy struct {
	MaxAttempts    int
	InitialDelayMs int
	MaxDelayMs     int
	Multiplier     float64
}

// SetDefaults fills in zero-valued fields
func (p *RetryPolicy) SetDefaults() {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialDelayMs <= 0 {
		p.InitialDelayMs = 500
	}
	if p.MaxDelayMs <= 0 {
		p.MaxDelayMs = 10000
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 2.0
	}
}

// CalculateDelay calculates the delay for a given attempt using exponential backoff
// Formula: delay = min(initial_delay * (multiplier ^ attempt), max_delay)
func (p *RetryPolicy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delayMs := float64(p.InitialDelayMs) * math.Pow(p.Multiplier, float64(attempt-1))

	if delayMs > float64(p.MaxDelayMs) {
		delayMs = float64(p.MaxDelayMs)
	}

	return time.Duration(delayMs) * time.Millisecond
}
