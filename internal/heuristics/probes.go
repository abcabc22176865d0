package heuristics

import (
	"log/slog"
	"strings"

	"github.com/oliveagle/jsonpath"

	"github.com/faultline/faultline/internal/model"
)

// probeDocument evaluates JSONPath probes against the raw parsed OpenAPI
// document. Probes only see documents submitted as openapi-json; a
// missing path is a normal outcome, not an error.
func (e *Engine) probeDocument(artifact *model.NormalizedArtifact) []model.HeuristicFinding {
	if artifact.Document == nil {
		return nil
	}

	var findings []model.HeuristicFinding

	if url, ok := e.lookupString(artifact.Document, "$.servers[0].url"); ok {
		if strings.HasPrefix(strings.ToLower(url), "http://") {
			findings = append(findings, model.HeuristicFinding{
				Finding: model.Finding{
					Title:       "API Served Over Plain HTTP",
					Description: "The first declared server URL uses http:// rather than https://.",
					Category:    "Security",
					Severity:    model.SeverityHigh,
					Rationale:   "Credentials and payloads sent over plain HTTP can be intercepted in transit.",
					Remediation: "Serve the API exclusively over TLS and redirect http traffic.",
				},
				Confidence: model.ConfidenceHigh,
				Source:     "openapi",
			})
		}
	}

	if _, err := jsonpath.JsonPathLookup(artifact.Document, "$.components.securitySchemes"); err != nil {
		if _, err := jsonpath.JsonPathLookup(artifact.Document, "$.securityDefinitions"); err != nil {
			findings = append(findings, model.HeuristicFinding{
				Finding: model.Finding{
					Title:       "No Security Schemes Declared",
					Description: "The document declares no security schemes at all.",
					Category:    "Security",
					Severity:    model.SeverityMedium,
					Rationale:   "Without a declared scheme, clients cannot discover how to authenticate.",
					Remediation: "Declare the authentication mechanism under components.securitySchemes.",
				},
				Confidence: model.ConfidenceMedium,
				Source:     "openapi",
			})
		}
	}

	return findings
}

// lookupString extracts a string value by JSONPath expression
func (e *Engine) lookupString(doc any, expression string) (string, bool) {
	value, err := jsonpath.JsonPathLookup(doc, expression)
	if err != nil {
		slog.Debug("JSONPath probe found nothing",
			"expression", expression,
			"error", err.Error(),
		)
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}
