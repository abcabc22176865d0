package synthesis

import (
	"fmt"
	"strings"

	"github.com/faultline/faultline/internal/model"
)

// Validate checks a synthesizer output against the report contract:
// score in [0,100], non-empty summary, a findings list with well-formed
// severities, exactly three charts, non-empty next steps, non-empty
// narrative. Violations trigger a schema retry, never a local repair.
func Validate(out *Output) error {
	if out == nil {
		return fmt.Errorf("empty output")
	}

	r := &out.Report

	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score %d outside [0,100]", r.Score)
	}
	if strings.TrimSpace(r.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	if r.Findings == nil {
		return fmt.Errorf("findings list is missing")
	}
	for i, f := range r.Findings {
		if f.Title == "" {
			return fmt.Errorf("finding %d has no title", i)
		}
		switch f.Severity {
		case model.SeverityHigh, model.SeverityMedium, model.SeverityLow:
		default:
			return fmt.Errorf("finding %d has invalid severity %q", i, f.Severity)
		}
	}
	if len(r.Charts) != model.ReportChartCount {
		return fmt.Errorf("expected %d charts, got %d", model.ReportChartCount, len(r.Charts))
	}
	for i, c := range r.Charts {
		if c.Title == "" || len(c.Data) == 0 {
			return fmt.Errorf("chart %d is incomplete", i)
		}
	}
	if len(r.NextSteps) == 0 {
		return fmt.Errorf("next steps list is empty")
	}
	if strings.TrimSpace(out.Markdown) == "" {
		return fmt.Errorf("narrative text is empty")
	}

	return nil
}
