package synthesis

import (
	"context"
	"fmt"

	"github.com/faultline/faultline/internal/model"
)

// DemoProvider produces a deterministic report derived from the
// heuristic findings alone. Selected when no real provider is
// configured, so the pipeline stays exercisable without credentials.
type DemoProvider struct{}

// NewDemoProvider creates a demo provider
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

// Synthesize builds a report from the heuristic findings without any
// model call. Never fails.
func (p *DemoProvider) Synthesize(_ context.Context, req Request) (*Output, error) {
	findings := make([]model.Finding, 0, len(req.Findings))
	for _, hf := range req.Findings {
		findings = append(findings, hf.Finding)
	}

	severityCounts := map[model.Severity]float64{}
	categoryCounts := map[string]float64{}
	for _, f := range findings {
		severityCounts[f.Severity]++
		categoryCounts[f.Category]++
	}

	score := 95 - 10*int(severityCounts[model.SeverityHigh]) -
		5*int(severityCounts[model.SeverityMedium]) -
		2*int(severityCounts[model.SeverityLow])
	if score < 0 {
		score = 0
	}

	categoryData := make([]model.ChartDataPoint, 0, len(categoryCounts))
	for _, category := range []string{"Security", "Reliability", "Maintainability", "Documentation"} {
		categoryData = append(categoryData, model.ChartDataPoint{
			Label: category,
			Value: categoryCounts[category],
		})
	}

	kind := "artifact"
	if req.Artifact != nil {
		kind = req.Artifact.Kind
	}

	report := model.AnalysisReport{
		Score: score,
		Summary: fmt.Sprintf("Analysis of %s artifact complete. Found %d issues via heuristics and added AI insights.",
			kind, len(findings)),
		Findings: findings,
		Charts: []model.Chart{
			{
				Title:       "Finding Severity Distribution",
				Type:        "pie",
				Description: "Distribution of findings by severity levels.",
				Data: []model.ChartDataPoint{
					{Label: "High", Value: severityCounts[model.SeverityHigh]},
					{Label: "Medium", Value: severityCounts[model.SeverityMedium]},
					{Label: "Low", Value: severityCounts[model.SeverityLow]},
				},
			},
			{
				Title:       "Category Breakdown",
				Type:        "bar",
				Description: "Findings grouped by category.",
				Data:        categoryData,
			},
			{
				Title:       "Production Readiness over Time",
				Type:        "line",
				Description: "Projected readiness score as findings are addressed.",
				Data: []model.ChartDataPoint{
					{Label: "Current", Value: float64(score)},
					{Label: "+1 Week", Value: minScore(float64(score)+13, 100)},
					{Label: "+2 Weeks", Value: minScore(float64(score)+23, 100)},
				},
			},
		},
		NextSteps: []string{
			"Address High severity security findings first.",
			"Implement pagination for identified list endpoints.",
			"Expand architecture documentation for missing sections.",
		},
	}

	markdown := fmt.Sprintf("# Analysis Report for %s\n\n## Summary\n%d findings identified.", kind, len(findings))

	return &Output{Report: report, Markdown: markdown}, nil
}

func minScore(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
