// Package mapper projects evaluation and audit results onto
// visualization patterns.
package mapper

import (
	"fmt"

	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/dkoosis/skipif/pkg/skip"
)

// FromEvaluation converts a condition evaluation into patterns: a
// summary line plus one row per condition.
func FromEvaluation(e skip.Evaluation) []pattern.Pattern {
	return evalPatterns(e, pattern.SummaryKindEval, evalLabel(e))
}

// FromList is FromEvaluation for the list surface: same rows, neutral
// summary label.
func FromList(e skip.Evaluation) []pattern.Pattern {
	label := fmt.Sprintf("CONDITIONS %d registered, host %s", len(e.Results), e.Platform)
	if !e.Platform.Known() {
		label = fmt.Sprintf("CONDITIONS %d registered, host unknown", len(e.Results))
	}
	return evalPatterns(e, pattern.SummaryKindList, label)
}

func evalLabel(e skip.Evaluation) string {
	if !e.Platform.Known() {
		return "RUN platform not identified, failing open"
	}
	if n := applying(e); n > 0 {
		return fmt.Sprintf("SKIP %d of %d conditions apply on %s", n, len(e.Results), e.Platform)
	}
	return fmt.Sprintf("RUN no conditions apply on %s", e.Platform)
}

func evalPatterns(e skip.Evaluation, kind pattern.SummaryKind, label string) []pattern.Pattern {
	n := applying(e)

	var metrics []pattern.SummaryItem
	if n > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "apply", Value: fmt.Sprintf("%d", n), Kind: "warning",
		})
	}
	metrics = append(metrics, pattern.SummaryItem{
		Label: "conditions", Value: fmt.Sprintf("%d", len(e.Results)), Kind: "info",
	})

	rows := make([]pattern.ConditionRow, 0, len(e.Results))
	for _, r := range e.Results {
		rows = append(rows, pattern.ConditionRow{
			Name:   r.Condition.Name,
			Reason: r.Condition.Reason,
			Skip:   r.Verdict.Skip,
		})
	}

	patterns := []pattern.Pattern{
		&pattern.Summary{Label: label, Kind: kind, Metrics: metrics},
	}
	if len(rows) > 0 {
		patterns = append(patterns, &pattern.ConditionTable{
			Label: "Conditions",
			Rows:  rows,
		})
	}
	return patterns
}

func applying(e skip.Evaluation) int {
	n := 0
	for _, r := range e.Results {
		if r.Verdict.Skip {
			n++
		}
	}
	return n
}
