// Package testjson parses go test -json NDJSON streams, keeping the
// detail a skip audit needs: which tests were skipped, in which
// package, and with what reason.
package testjson

import "time"

// TestEvent is one event from the go test -json stream.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// Actions carried by the stream. The aggregator only reacts to
// pass, fail, skip, and output; start and run matter to the live
// ticker. pause, cont, and bench events affect nothing.
const (
	ActionStart  = "start"
	ActionRun    = "run"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"
	ActionOutput = "output"
)

// SkipRecord is one skipped test with its extracted reason. Reason is
// empty when the test gave none.
type SkipRecord struct {
	Package string `json:"package"`
	Test    string `json:"test"`
	Reason  string `json:"reason"`
}

// PackageResult aggregates one package's run.
type PackageResult struct {
	Name       string
	Passed     int
	Failed     int
	Skipped    int
	Duration   time.Duration
	Skips      []SkipRecord
	BuildError string // non-empty if the package failed before running any test
}

// TotalTests returns the number of tests that ran or were skipped.
func (r *PackageResult) TotalTests() int {
	return r.Passed + r.Failed + r.Skipped
}

// Status returns "pass", "fail", or "skip" for the package.
func (r *PackageResult) Status() string {
	if r.BuildError != "" || r.Failed > 0 {
		return "fail"
	}
	if r.Passed == 0 && r.Skipped > 0 {
		return "skip"
	}
	return "pass"
}
