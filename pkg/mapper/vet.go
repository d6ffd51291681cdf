package mapper

import (
	"fmt"

	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/rules"
)

// FromRules converts one rule file's verdicts into patterns. The label
// names the file so multi-file vet output stays readable.
func FromRules(host platform.Descriptor, path string, verdicts []rules.RuleVerdict) []pattern.Pattern {
	applying := 0
	for _, v := range verdicts {
		if v.Verdict.Skip {
			applying++
		}
	}

	name := path
	if name == "" {
		name = "rules"
	}

	var label string
	switch {
	case !host.Known():
		label = fmt.Sprintf("VET %s, %d rules, platform not identified", name, len(verdicts))
	case applying > 0:
		label = fmt.Sprintf("VET %s, %d of %d rules apply on %s", name, applying, len(verdicts), host)
	default:
		label = fmt.Sprintf("VET %s, no rules apply on %s", name, host)
	}

	metrics := []pattern.SummaryItem{
		{Label: "rules", Value: fmt.Sprintf("%d", len(verdicts)), Kind: "info"},
	}
	if applying > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "apply", Value: fmt.Sprintf("%d", applying), Kind: "warning",
		})
	}

	rows := make([]pattern.ConditionRow, 0, len(verdicts))
	for _, v := range verdicts {
		rows = append(rows, pattern.ConditionRow{
			Name:    v.Condition,
			Pattern: v.Pattern,
			Reason:  v.Reason,
			Skip:    v.Verdict.Skip,
		})
	}

	patterns := []pattern.Pattern{
		&pattern.Summary{Label: label, Kind: pattern.SummaryKindVet, Metrics: metrics},
	}
	if len(rows) > 0 {
		patterns = append(patterns, &pattern.ConditionTable{
			Label: "Rules",
			Rows:  rows,
		})
	}
	return patterns
}
