// Package normalizer turns raw submitted content into a structured
// artifact description. Normalization is total: malformed input degrades
// to a best-effort partial structure instead of failing the pipeline.
package normalizer

import (
	"log/slog"

	"github.com/faultline/faultline/internal/model"
)

// Limits caps how many elements normalization extracts from one artifact
type Limits struct {
	MaxEndpoints  int
	MaxComponents int
	MaxSections   int
}

// Normalizer converts raw content into a NormalizedArtifact
type Normalizer struct {
	limits Limits
}

// New creates a normalizer with the given element caps
func New(limits Limits) *Normalizer {
	if limits.MaxEndpoints <= 0 {
		limits.MaxEndpoints = 100
	}
	if limits.MaxComponents <= 0 {
		limits.MaxComponents = 50
	}
	if limits.MaxSections <= 0 {
		limits.MaxSections = 50
	}
	return &Normalizer{limits: limits}
}

// Normalize produces a structured artifact for the given content kind
func (n *Normalizer) Normalize(content string, contentType model.ContentType) *model.NormalizedArtifact {
	switch contentType {
	case model.ContentTypeOpenAPIJSON, model.ContentTypeOpenAPIYAML:
		artifact := n.normalizeOpenAPI(content, contentType)
		if artifact.Degraded {
			slog.Warn("OpenAPI normalization degraded to regex extraction",
				"content_type", string(contentType),
				"endpoints", len(artifact.Endpoints),
			)
		}
		return artifact
	default:
		return n.normalizeMarkdown(content)
	}
}
