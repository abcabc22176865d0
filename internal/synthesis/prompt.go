package synthesis

import (
	"encoding/json"
	"fmt"
)

// systemPrompt carries the synthesizer's persona and the interpretation
// rule for heuristic findings. The rule is part of the contract, not
// enforced mechanically: high-confidence findings are facts, low
// confidence ones weak signals, and nothing outside the supplied inputs
// may be invented.
const systemPrompt = `You are a production-grade software architecture and security expert. ` +
	`Analyze the provided artifact (code, config, or architecture) and identify 3-6 meaningful findings. ` +
	`Categorize findings into groups like Scalability, AI Risk, Cloud, Security, Reliability, etc. ` +
	`Assign severity levels: High, Medium, or Low. ` +
	`Provide a Production Readiness Score (0-100), rationale for each finding, ` +
	`and actionable remediation guidance. ` +
	`Treat high-confidence heuristic findings as factual and low-confidence ones as weak signals; ` +
	`do not introduce findings unsupported by the normalized artifact or the heuristic findings you were given. ` +
	`Respond with a single JSON object with keys: score (integer 0-100), summary (string), ` +
	`findings (array of {title, description, category, severity, rationale, remediation}), ` +
	`charts (exactly 3 objects of {title, type, description, data: [{label, value}]}), ` +
	`next_steps (array of strings), markdown_report (string).`

// buildUserPrompt serializes the synthesis request for the model
func buildUserPrompt(req Request) (string, error) {
	payload, err := json.MarshalIndent(map[string]any{
		"normalized_artifact": req.Artifact,
		"heuristic_findings":  req.Findings,
		"metadata":            req.Metadata,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize synthesis request: %w", err)
	}
	return string(payload), nil
}
