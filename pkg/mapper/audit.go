package mapper

import (
	"fmt"
	"strings"

	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/pattern"
)

// FromAudit converts an audit report into patterns: a summary, then
// unexplained skips (the interesting ones), then explained skips.
func FromAudit(r *audit.Report) []pattern.Pattern {
	patterns := []pattern.Pattern{auditSummary(r)}

	var unexplained, explained []pattern.SkipRow
	for _, s := range r.Skips {
		row := pattern.SkipRow{
			Package:   ShortPkgName(s.Package),
			Test:      s.Test,
			Reason:    s.Reason,
			Condition: s.Condition,
			Explained: s.Explained,
		}
		if s.Explained {
			explained = append(explained, row)
		} else {
			unexplained = append(unexplained, row)
		}
	}

	if len(unexplained) > 0 {
		patterns = append(patterns, &pattern.SkipTable{
			Label: fmt.Sprintf("Unexplained Skips (%d)", len(unexplained)),
			Rows:  unexplained,
		})
	}
	if len(explained) > 0 {
		patterns = append(patterns, &pattern.SkipTable{
			Label: fmt.Sprintf("Explained Skips (%d)", len(explained)),
			Rows:  explained,
		})
	}
	return patterns
}

func auditSummary(r *audit.Report) *pattern.Summary {
	t := r.Totals
	total := t.Passed + t.Failed + t.Skipped

	var metrics []pattern.SummaryItem
	if t.BuildErrors > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "build errors", Value: fmt.Sprintf("%d", t.BuildErrors), Kind: "error",
		})
	}
	if t.Failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "failed", Value: fmt.Sprintf("%d/%d tests", t.Failed, total), Kind: "error",
		})
	}
	if t.Passed > 0 {
		kind := "success"
		if t.Failed > 0 {
			kind = "info"
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: "passed", Value: fmt.Sprintf("%d/%d tests", t.Passed, total), Kind: kind,
		})
	}
	if t.Skipped > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "skipped", Value: fmt.Sprintf("%d", t.Skipped), Kind: "warning",
		})
		explainedKind := "success"
		if t.Unexplained > 0 {
			explainedKind = "info"
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: "explained", Value: fmt.Sprintf("%d/%d skips", t.Explained, t.Skipped), Kind: explainedKind,
		})
	}
	if t.Unexplained > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "unexplained", Value: fmt.Sprintf("%d", t.Unexplained), Kind: "error",
		})
	}
	metrics = append(metrics, pattern.SummaryItem{
		Label: "packages", Value: fmt.Sprintf("%d", t.Packages), Kind: "info",
	})

	var label string
	switch {
	case r.Failed():
		label = fmt.Sprintf("FAIL %d/%d tests on %s", t.Failed, total, r.Host)
	case !r.Clean():
		label = fmt.Sprintf("UNEXPLAINED %d of %d skips lack a condition on %s", t.Unexplained, t.Skipped, r.Host)
	case t.Skipped > 0:
		label = fmt.Sprintf("PASS %d tests, %d skips all explained on %s", t.Passed, t.Skipped, r.Host)
	default:
		label = fmt.Sprintf("PASS %d tests, no skips on %s", t.Passed, r.Host)
	}

	return &pattern.Summary{
		Label:   label,
		Kind:    pattern.SummaryKindAudit,
		Metrics: metrics,
	}
}

// ShortPkgName strips the module prefix from a package path, leaving
// enough to tell packages apart in a narrow column.
func ShortPkgName(name string) string {
	for _, prefix := range []string{"/internal/", "/cmd/", "/pkg/"} {
		if idx := strings.Index(name, prefix); idx != -1 {
			return name[idx+1:]
		}
	}
	parts := strings.Split(name, "/")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return name
}
