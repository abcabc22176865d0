// Package synthesis invokes the LLM-backed synthesizer that turns a
// normalized artifact and heuristic findings into a scored report, and
// enforces the retry and schema-validation policy around it.
package synthesis

import (
	"context"
	"errors"

	"github.com/faultline/faultline/internal/model"
)

var (
	// ErrSchemaInvalid means the synthesizer's output did not conform to
	// the report shape within the schema retry budget
	ErrSchemaInvalid = errors.New("synthesis output schema invalid")

	// ErrProviderError means the provider could not be reached or kept
	// failing within the transport retry budget
	ErrProviderError = errors.New("synthesis provider error")
)

// Request carries everything the synthesizer sees. Heuristic findings
// are passed through opaque and unmodified.
type Request struct {
	Artifact *model.NormalizedArtifact `json:"artifact"`
	Findings []model.HeuristicFinding  `json:"findings"`
	Metadata map[string]string         `json:"metadata,omitempty"`
}

// Output is a synthesized report with its narrative companion
type Output struct {
	Report   model.AnalysisReport `json:"report"`
	Markdown string               `json:"markdown"`
}

// Provider is one concrete synthesizer backend
type Provider interface {
	Synthesize(ctx context.Context, req Request) (*Output, error)
}
