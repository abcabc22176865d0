package model

import (
	"errors"
	"fmt"
)

// ContentType identifies the kind of artifact submitted for analysis
type ContentType string

const (
	ContentTypeMarkdown    ContentType = "markdown"
	ContentTypeOpenAPIYAML ContentType = "openapi-yaml"
	ContentTypeOpenAPIJSON ContentType = "openapi-json"
)

// Valid reports whether the content type is one of the supported kinds
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeMarkdown, ContentTypeOpenAPIYAML, ContentTypeOpenAPIJSON:
		return true
	}
	return false
}

// AnalysisRequest is the submission body for POST /artifacts/analyze
type AnalysisRequest struct {
	Content     string            `json:"content"`
	ContentType ContentType       `json:"content_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Validate validates an analysis request
func (r *AnalysisRequest) Validate() error {
	if r.Content == "" {
		return errors.New("content is required")
	}
	if !r.ContentType.Valid() {
		return fmt.Errorf("unsupported content_type: %s (must be 'markdown', 'openapi-yaml', or 'openapi-json')", r.ContentType)
	}
	return nil
}

// Severity levels assigned to findings
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Finding is a single production-readiness issue in a report
type Finding struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Rationale   string   `json:"rationale"`
	Remediation string   `json:"remediation"`
}

// ChartDataPoint is one labelled value in a chart series
type ChartDataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a renderable visualization attached to a report
type Chart struct {
	Title       string           `json:"title"`
	Type        string           `json:"type"` // "pie" | "bar" | "line"
	Description string           `json:"description"`
	Data        []ChartDataPoint `json:"data"`
}

// ReportChartCount is the number of charts every report must carry
const ReportChartCount = 3

// AnalysisReport is the structured result of a completed analysis
type AnalysisReport struct {
	Score     int       `json:"score"`
	Summary   string    `json:"summary"`
	Findings  []Finding `json:"findings"`
	Charts    []Chart   `json:"charts"`
	NextSteps []string  `json:"next_steps"`
}

// CacheEntry is a fingerprint-keyed memo of a previously computed report
type CacheEntry struct {
	Result   AnalysisReport `json:"result"`
	Markdown string         `json:"markdown"`
}
