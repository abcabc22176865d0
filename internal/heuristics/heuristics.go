// Package heuristics produces rule-based findings from a normalized
// artifact. The engine is total: an artifact with no issues yields an
// empty list, never an error.
package heuristics

import (
	"fmt"
	"strings"

	"github.com/faultline/faultline/internal/model"
)

// Engine evaluates production-readiness rules against normalized artifacts
type Engine struct{}

// New creates a heuristic engine
func New() *Engine {
	return &Engine{}
}

// Run evaluates all rules applicable to the artifact's kind
func (e *Engine) Run(artifact *model.NormalizedArtifact) []model.HeuristicFinding {
	switch artifact.Kind {
	case "openapi":
		return e.openAPIFindings(artifact)
	case "markdown":
		return e.markdownFindings(artifact)
	}
	return nil
}

func (e *Engine) openAPIFindings(artifact *model.NormalizedArtifact) []model.HeuristicFinding {
	var findings []model.HeuristicFinding

	if len(artifact.Endpoints) == 0 {
		return findings
	}

	for _, ep := range artifact.Endpoints {
		if !ep.Secured && ep.Method != "GET" && ep.Method != "UNKNOWN" {
			findings = append(findings, model.HeuristicFinding{
				Finding: model.Finding{
					Title:       fmt.Sprintf("Unsecured Write Endpoint: %s", ep.Path),
					Description: fmt.Sprintf("The %s endpoint %s appears to lack authentication.", ep.Method, ep.Path),
					Category:    "Security",
					Severity:    model.SeverityHigh,
					Rationale:   "Write operations without authentication allow unauthorized data modification.",
					Remediation: "Apply security schemes (e.g., Bearer Auth) to this endpoint.",
				},
				Confidence: model.ConfidenceHigh,
				Source:     "openapi",
			})
		}

		if ep.Method == "GET" && !ep.HasPagination && strings.Contains(strings.ToLower(ep.Path), "list") {
			findings = append(findings, model.HeuristicFinding{
				Finding: model.Finding{
					Title:       fmt.Sprintf("Missing Pagination: %s", ep.Path),
					Description: "List endpoints should support pagination to prevent resource exhaustion.",
					Category:    "Reliability",
					Severity:    model.SeverityMedium,
					Rationale:   "Unbounded result sets can crash the server or database under load.",
					Remediation: "Add limit/offset or cursor-based pagination parameters.",
				},
				Confidence: model.ConfidenceHigh,
				Source:     "openapi",
			})
		}
	}

	versioned := false
	for _, ep := range artifact.Endpoints {
		if ep.HasVersioning {
			versioned = true
			break
		}
	}
	if !versioned {
		findings = append(findings, model.HeuristicFinding{
			Finding: model.Finding{
				Title:       "Missing API Versioning",
				Description: "The API does not seem to use versioning in paths or headers.",
				Category:    "Maintainability",
				Severity:    model.SeverityMedium,
				Rationale:   "Breaking changes cannot be introduced safely without versioning.",
				Remediation: "Introduce /v1/ prefixes or version headers.",
			},
			Confidence: model.ConfidenceHigh,
			Source:     "openapi",
		})
	}

	findings = append(findings, e.probeDocument(artifact)...)

	return findings
}

// requiredSections a production-ready document should cover
var requiredSections = []string{"security", "scaling", "deployment", "monitoring"}

func (e *Engine) markdownFindings(artifact *model.NormalizedArtifact) []model.HeuristicFinding {
	var findings []model.HeuristicFinding

	var body strings.Builder
	for name, text := range artifact.Sections {
		body.WriteString(strings.ToLower(name))
		body.WriteString("\n")
		body.WriteString(strings.ToLower(text))
	}
	content := body.String()

	for _, required := range requiredSections {
		found := false
		for name := range artifact.Sections {
			if strings.Contains(strings.ToLower(name), required) {
				found = true
				break
			}
		}
		if !found {
			title := strings.ToUpper(required[:1]) + required[1:]
			findings = append(findings, model.HeuristicFinding{
				Finding: model.Finding{
					Title:       fmt.Sprintf("Missing Documentation: %s", title),
					Description: fmt.Sprintf("The documentation lacks a dedicated section for %s.", required),
					Category:    "Documentation",
					Severity:    model.SeverityLow,
					Rationale:   "Complete documentation is essential for production readiness.",
					Remediation: fmt.Sprintf("Add a section detailing the %s strategy.", required),
				},
				Confidence: model.ConfidenceLow,
				Source:     "documentation",
			})
		}
	}

	if !strings.Contains(content, "auth") && !strings.Contains(content, "security") {
		findings = append(findings, model.HeuristicFinding{
			Finding: model.Finding{
				Title:       "Missing Security Architecture",
				Description: "No mention of authentication or authorization found in the document.",
				Category:    "Security",
				Severity:    model.SeverityHigh,
				Rationale:   "Security must be a first-class citizen in architecture planning.",
				Remediation: "Detail the identity provider and auth flow (e.g., OAuth2, JWT).",
			},
			Confidence: model.ConfidenceMedium,
			Source:     "architecture",
		})
	}

	hasDatabase := false
	for _, c := range artifact.Components {
		if c.Type == "database" {
			hasDatabase = true
			break
		}
	}
	if strings.Contains(content, "single point of failure") ||
		strings.Contains(content, "single database") ||
		(len(artifact.Services) == 1 && hasDatabase) {
		findings = append(findings, model.HeuristicFinding{
			Finding: model.Finding{
				Title:       "Potential Single Point of Failure",
				Description: "The document suggests a single database or monolithic structure.",
				Category:    "Reliability",
				Severity:    model.SeverityMedium,
				Rationale:   "A single failure point can take down the entire system.",
				Remediation: "Implement redundancy and database clustering.",
			},
			Confidence: model.ConfidenceMedium,
			Source:     "architecture",
		})
	}

	return findings
}
