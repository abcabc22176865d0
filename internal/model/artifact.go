package model

// Endpoint is one operation extracted from an OpenAPI document
type Endpoint struct {
	Path          string `json:"path"`
	Method        string `json:"method"`
	Secured       bool   `json:"secured"`
	HasPagination bool   `json:"has_pagination"`
	HasVersioning bool   `json:"has_versioning"`
}

// Component is an infrastructure element mentioned in a document
type Component struct {
	Name string `json:"name"`
	Type string `json:"type"` // "database" | "queue" | "cache"
}

// NormalizedArtifact is the structured form of a submitted artifact.
// Normalization is total: a malformed input degrades to a partial
// structure with Degraded set rather than an error.
type NormalizedArtifact struct {
	Kind       string            `json:"kind"` // "openapi" | "markdown"
	Endpoints  []Endpoint        `json:"endpoints,omitempty"`
	Services   []string          `json:"services,omitempty"`
	Components []Component       `json:"components,omitempty"`
	Sections   map[string]string `json:"sections,omitempty"`
	Degraded   bool              `json:"degraded,omitempty"`

	// Document holds the raw parsed JSON form of the artifact when one
	// exists, for JSONPath probing. Never serialized.
	Document any `json:"-"`
}

// Confidence levels attached to heuristic findings
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// HeuristicFinding is a rule-derived observation fed into synthesis.
// The pipeline passes these through untouched.
type HeuristicFinding struct {
	Finding
	Confidence Confidence `json:"confidence"`
	Source     string     `json:"source"`
}
