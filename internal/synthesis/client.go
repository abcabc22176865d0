package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ClientConfig tunes the retry budgets around the provider
type ClientConfig struct {
	// TransportRetries caps provider-call attempts per schema attempt
	TransportRetries int
	// SchemaRetries caps additional re-invocations after an output that
	// failed validation
	SchemaRetries int
}

// Client wraps a provider with the synthesis policy: transport retries
// with exponential backoff, schema-validation retries nested around
// them, and a circuit breaker in front of the provider. Both budgets
// are capped independently.
type Client struct {
	provider Provider
	retry    RetryPolicy
	breaker  *CircuitBreaker

	schemaRetries int
}

// NewClient creates a synthesis client around a provider
func NewClient(provider Provider, cfg ClientConfig) *Client {
	retry := RetryPolicy{MaxAttempts: cfg.TransportRetries}
	retry.SetDefaults()

	schemaRetries := cfg.SchemaRetries
	if schemaRetries < 0 {
		schemaRetries = 0
	}

	return &Client{
		provider:      provider,
		retry:         retry,
		breaker:       NewCircuitBreaker(),
		schemaRetries: schemaRetries,
	}
}

// Synthesize invokes the provider until it yields a schema-valid report
// or a budget runs out. Schema violations retry independently of
// transport failures; each schema retry re-invokes the synthesizer.
func (c *Client) Synthesize(ctx context.Context, req Request) (*Output, error) {
	var lastInvalid error

	for attempt := 0; attempt <= c.schemaRetries; attempt++ {
		out, err := c.callWithTransportRetries(ctx, req)
		if err != nil {
			if errors.Is(err, ErrSchemaInvalid) {
				// provider produced unparseable output; charge the
				// schema budget, not the transport budget
				lastInvalid = err
				slog.Warn("Synthesis output unparseable, retrying",
					"schema_attempt", attempt+1,
					"error", err.Error(),
				)
				continue
			}
			return nil, err
		}

		if err := Validate(out); err != nil {
			lastInvalid = err
			slog.Warn("Synthesis output failed schema validation, retrying",
				"schema_attempt", attempt+1,
				"error", err.Error(),
			)
			continue
		}

		return out, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, lastInvalid)
}

// callWithTransportRetries runs one schema attempt's worth of provider
// calls, backing off between transport failures
func (c *Client) callWithTransportRetries(ctx context.Context, req Request) (*Output, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if !c.breaker.CanAttempt() {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrProviderError)
		}

		start := time.Now()
		out, err := c.provider.Synthesize(ctx, req)
		if err == nil {
			c.breaker.RecordSuccess()
			slog.Debug("Synthesizer responded",
				"attempt", attempt,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return out, nil
		}

		if errors.Is(err, ErrSchemaInvalid) {
			// the wire call succeeded; the payload is the problem
			c.breaker.RecordSuccess()
			return nil, err
		}

		c.breaker.RecordFailure()
		lastErr = err
		slog.Warn("Synthesizer call failed",
			"attempt", attempt,
			"max_attempts", c.retry.MaxAttempts,
			"error", err.Error(),
		)

		if attempt < c.retry.MaxAttempts {
			select {
			case <-time.After(c.retry.CalculateDelay(attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrProviderError, ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrProviderError, lastErr)
}
