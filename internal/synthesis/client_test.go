package synthesis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faultline/faultline/internal/model"
)

// scriptedProvider returns its responses in order, then repeats the last
type scriptedProvider struct {
	responses []func() (*Output, error)
	calls     int
}

func (p *scriptedProvider) Synthesize(_ context.Context, _ Request) (*Output, error) {
	idx := p.calls
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	p.calls++
	return p.responses[idx]()
}

func validOutput() (*Output, error) {
	report := model.AnalysisReport{
		Score:    80,
		Summary:  "mostly ready",
		Findings: []model.Finding{},
		Charts: []model.Chart{
			{Title: "a", Type: "pie", Data: []model.ChartDataPoint{{Label: "x", Value: 1}}},
			{Title: "b", Type: "bar", Data: []model.ChartDataPoint{{Label: "x", Value: 1}}},
			{Title: "c", Type: "line", Data: []model.ChartDataPoint{{Label: "x", Value: 1}}},
		},
		NextSteps: []string{"ship it"},
	}
	return &Output{Report: report, Markdown: "# Report"}, nil
}

func invalidOutput() (*Output, error) {
	out, _ := validOutput()
	out.Report.Summary = ""
	return out, nil
}

func transportError() (*Output, error) {
	return nil, fmt.Errorf("connection refused")
}

func unparseableOutput() (*Output, error) {
	return nil, fmt.Errorf("%w: model output is not valid JSON", ErrSchemaInvalid)
}

func TestSynthesizeFirstCallSucceeds(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){validOutput}}
	c := NewClient(p, ClientConfig{TransportRetries: 3, SchemaRetries: 3})

	out, err := c.Synthesize(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 80, out.Report.Score)
	assert.Equal(t, 1, p.calls)
}

func TestSynthesizeRetriesInvalidSchema(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){
		invalidOutput,
		invalidOutput,
		validOutput,
	}}
	c := NewClient(p, ClientConfig{TransportRetries: 1, SchemaRetries: 3})

	out, err := c.Synthesize(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 80, out.Report.Score)
	assert.Equal(t, 3, p.calls)
}

func TestSynthesizeSchemaBudgetExhausted(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){invalidOutput}}
	c := NewClient(p, ClientConfig{TransportRetries: 1, SchemaRetries: 2})

	_, err := c.Synthesize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrSchemaInvalid)
	// initial attempt plus two schema retries
	assert.Equal(t, 3, p.calls)
}

func TestSynthesizeUnparseableOutputChargesSchemaBudget(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){
		unparseableOutput,
		validOutput,
	}}
	c := NewClient(p, ClientConfig{TransportRetries: 1, SchemaRetries: 1})

	out, err := c.Synthesize(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 80, out.Report.Score)
	assert.Equal(t, 2, p.calls)
}

func TestSynthesizeRetriesTransportFailures(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){
		transportError,
		validOutput,
	}}
	c := NewClient(p, ClientConfig{TransportRetries: 2, SchemaRetries: 0})

	out, err := c.Synthesize(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 80, out.Report.Score)
	assert.Equal(t, 2, p.calls)
}

func TestSynthesizeTransportBudgetExhausted(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){transportError}}
	c := NewClient(p, ClientConfig{TransportRetries: 2, SchemaRetries: 3})

	_, err := c.Synthesize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrProviderError)
	assert.NotErrorIs(t, err, ErrSchemaInvalid)
	// transport exhaustion ends the run; no schema retry re-invokes it
	assert.Equal(t, 2, p.calls)
}

func TestSynthesizeContextCancelledDuringBackoff(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){transportError}}
	c := NewClient(p, ClientConfig{TransportRetries: 3, SchemaRetries: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Synthesize(ctx, Request{})
	assert.ErrorIs(t, err, ErrProviderError)
	assert.Equal(t, 1, p.calls)
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){transportError}}
	c := NewClient(p, ClientConfig{TransportRetries: 2, SchemaRetries: 0})

	// repeated synthesis runs push the breaker past its threshold
	for i := 0; i < 3; i++ {
		_, err := c.Synthesize(context.Background(), Request{})
		require.Error(t, err)
	}

	callsBefore := p.calls
	_, err := c.Synthesize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrProviderError)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, callsBefore, p.calls)
}

func TestRetryPolicyDelayGrowth(t *testing.T) {
	p := RetryPolicy{}
	p.SetDefaults()

	assert.Equal(t, int64(0), p.CalculateDelay(0).Milliseconds())
	assert.Equal(t, int64(500), p.CalculateDelay(1).Milliseconds())
	assert.Equal(t, int64(1000), p.CalculateDelay(2).Milliseconds())
	assert.Equal(t, int64(2000), p.CalculateDelay(3).Milliseconds())
	assert.Equal(t, int64(10000), p.CalculateDelay(10).Milliseconds())
}

func TestSynthesizeWrapsValidationDetail(t *testing.T) {
	p := &scriptedProvider{responses: []func() (*Output, error){invalidOutput}}
	c := NewClient(p, ClientConfig{TransportRetries: 1, SchemaRetries: 0})

	_, err := c.Synthesize(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaInvalid))
	assert.Contains(t, err.Error(), "summary is empty")
}
