// Package audit joins a parsed go test -json run against known skip
// conditions and rule sets, and classifies every skipped test as
// explained or unexplained. An explained skip traces back to a
// declared condition; an unexplained one is a test somebody silenced
// by hand.
package audit

import (
	"strings"

	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/rules"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/testjson"
)

// SkippedTest is one skipped test with its classification.
type SkippedTest struct {
	Package   string `json:"package"`
	Test      string `json:"test"`
	Reason    string `json:"reason"`
	Condition string `json:"condition,omitempty"`
	Explained bool   `json:"explained"`
}

// Stats aggregates counts across the whole run.
type Stats struct {
	Packages    int `json:"packages"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	Explained   int `json:"explained"`
	Unexplained int `json:"unexplained"`
	BuildErrors int `json:"build_errors"`
}

// Report is the audit of one test run.
type Report struct {
	Host     platform.Descriptor      `json:"host"`
	Packages []testjson.PackageResult `json:"packages"`
	Skips    []SkippedTest            `json:"skips"`
	Totals   Stats                    `json:"totals"`
}

// Build audits results against conds and sets. A skip is explained
// when a rule set binds its test name, or when its reason carries a
// known condition's reason or name. Classification does not depend on
// host, but the descriptor is recorded for rendering.
func Build(host platform.Descriptor, results []testjson.PackageResult, conds []skip.Condition, sets []*rules.Set) *Report {
	r := &Report{Host: host, Packages: results}

	for _, pkg := range results {
		for _, s := range pkg.Skips {
			st := SkippedTest{
				Package: s.Package,
				Test:    s.Test,
				Reason:  s.Reason,
			}
			st.Condition, st.Explained = Explain(s, conds, sets)
			r.Skips = append(r.Skips, st)
		}
	}

	r.Totals = computeStats(r)
	return r
}

// Explain matches a skip record to a condition. Rule bindings are
// authoritative; reason text is the fallback for tests that call
// skip.If directly. The streaming display uses the same matching so
// live and post-hoc classifications never disagree.
func Explain(s testjson.SkipRecord, conds []skip.Condition, sets []*rules.Set) (string, bool) {
	for _, set := range sets {
		if b, ok := set.Match(s.Test); ok {
			return b.Condition.Name, true
		}
	}
	for _, c := range conds {
		if c.Reason != "" && strings.Contains(s.Reason, c.Reason) {
			return c.Name, true
		}
		if c.Name != "" && strings.Contains(s.Reason, c.Name) {
			return c.Name, true
		}
	}
	return "", false
}

func computeStats(r *Report) Stats {
	var s Stats
	s.Packages = len(r.Packages)
	for _, pkg := range r.Packages {
		s.Passed += pkg.Passed
		s.Failed += pkg.Failed
		s.Skipped += pkg.Skipped
		if pkg.BuildError != "" {
			s.BuildErrors++
		}
	}
	for _, st := range r.Skips {
		if st.Explained {
			s.Explained++
		} else {
			s.Unexplained++
		}
	}
	return s
}

// Clean reports whether every skip in the report is explained.
func (r *Report) Clean() bool {
	return r.Totals.Unexplained == 0
}

// Failed reports whether the underlying run had failures.
func (r *Report) Failed() bool {
	return r.Totals.Failed > 0 || r.Totals.BuildErrors > 0
}
