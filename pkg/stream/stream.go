// Package stream renders go test -json events as a live skip ticker.
// Every skip prints as it happens with its reason and the condition
// that explains it, while passing tests only advance counters. An
// ANSI footer tracks active packages and is erased and redrawn as
// history scrolls.
package stream

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dkoosis/skipif/pkg/testjson"
)

// LineKind identifies the type of output line for styling.
type LineKind int

const (
	KindPass LineKind = iota
	KindFail
	KindSkip
	KindSkipUnexplained
	KindPkgPass
	KindPkgFail
	KindOutput
	KindSeparator
)

// StyleFunc formats a line with colors/symbols.
// If nil, no styling is applied.
type StyleFunc func(kind LineKind, text string) string

// ExplainFunc classifies a skip as it streams by. It returns the name
// of the condition accounting for the skip, or false when no known
// condition does. If nil, skips are printed without classification.
type ExplainFunc func(rec testjson.SkipRecord) (condition string, ok bool)

// pkgProgress tracks state for one active package.
type pkgProgress struct {
	name        string // full package path
	short       string // last segment
	startTime   time.Time
	finished    int // tests completed
	passed      int
	failed      int
	skipped     int
	currentTest string // most recently run test name
}

// streamer is the core state machine for the skip ticker.
type streamer struct {
	tw      *termWriter
	style   StyleFunc
	explain ExplainFunc

	active map[string]*pkgProgress // active packages by full name
	order  []string                // package order for footer rendering

	outputBuf map[string][]string // per-test output buffer, keyed by "pkg\x00test"

	totalPassed  int
	totalFailed  int
	totalSkipped int
	totalPkgs    int
	unexplained  int
	maxDuration  float64
	hasFailed    bool // any test or package failed
}

func newStreamer(tw *termWriter, style StyleFunc, explain ExplainFunc) *streamer {
	return &streamer{
		tw:        tw,
		style:     style,
		explain:   explain,
		active:    make(map[string]*pkgProgress),
		outputBuf: make(map[string][]string),
	}
}

// shortPkg returns the last path segment of a package name.
func shortPkg(pkg string) string {
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		return pkg[i+1:]
	}
	return pkg
}

// bufKey returns the output buffer key for a package/test pair.
func bufKey(pkg, test string) string {
	return pkg + "\x00" + test
}

// styleLine applies the style function if set, otherwise returns text unchanged.
func (s *streamer) styleLine(kind LineKind, text string) string {
	if s.style != nil {
		return s.style(kind, text)
	}
	return text
}

// handleEvent processes a single test event. Passing tests stay
// silent; skips and failures reach the history region.
func (s *streamer) handleEvent(e testjson.TestEvent) {
	switch e.Action {
	case testjson.ActionStart:
		s.handleStart(e)
	case testjson.ActionRun:
		s.handleRun(e)
	case testjson.ActionPass:
		if e.Test != "" {
			s.handleTestPass(e)
		} else {
			s.handlePkgDone(e, false)
		}
	case testjson.ActionFail:
		if e.Test != "" {
			s.handleTestFail(e)
		} else {
			s.handlePkgDone(e, true)
		}
	case testjson.ActionSkip:
		if e.Test != "" {
			s.handleTestSkip(e)
		} else {
			// "[no test files]": drop from the footer, don't count.
			delete(s.active, e.Package)
		}
	case testjson.ActionOutput:
		s.handleOutput(e)
	case "pause", "cont":
		// ignored
	}

	s.redrawFooter()
}

func (s *streamer) handleStart(e testjson.TestEvent) {
	pkg := &pkgProgress{
		name:      e.Package,
		short:     shortPkg(e.Package),
		startTime: e.Time,
	}
	s.active[e.Package] = pkg
	s.order = append(s.order, e.Package)
}

func (s *streamer) handleRun(e testjson.TestEvent) {
	if pkg, ok := s.active[e.Package]; ok {
		pkg.currentTest = e.Test
	}
}

// handleTestPass advances counters without printing. The ticker shows
// skips and failures; passes surface in the package line.
func (s *streamer) handleTestPass(e testjson.TestEvent) {
	if pkg, ok := s.active[e.Package]; ok {
		pkg.passed++
		pkg.finished++
	}
	delete(s.outputBuf, bufKey(e.Package, e.Test))
}

func (s *streamer) handleTestFail(e testjson.TestEvent) {
	if pkg, ok := s.active[e.Package]; ok {
		pkg.failed++
		pkg.finished++
	}
	s.hasFailed = true
	line := fmt.Sprintf("  %-10s ✗ %-40s %5.2fs", shortPkg(e.Package), e.Test, e.Elapsed)
	s.tw.EraseFooter()
	s.tw.PrintLine(s.styleLine(KindFail, line))

	// Flush buffered output
	key := bufKey(e.Package, e.Test)
	for _, l := range s.outputBuf[key] {
		if isBoilerplate(l) {
			continue
		}
		s.tw.PrintLine(s.styleLine(KindOutput, "             "+l))
	}
	delete(s.outputBuf, key)
}

// handleTestSkip prints the headline the ticker exists for: which
// test was skipped, under which condition, and why.
func (s *streamer) handleTestSkip(e testjson.TestEvent) {
	if pkg, ok := s.active[e.Package]; ok {
		pkg.skipped++
		pkg.finished++
	}
	key := bufKey(e.Package, e.Test)
	reason := testjson.SkipReason(s.outputBuf[key])
	delete(s.outputBuf, key)

	kind := KindSkip
	tag := ""
	if s.explain != nil {
		rec := testjson.SkipRecord{Package: e.Package, Test: e.Test, Reason: reason}
		if cond, ok := s.explain(rec); ok {
			tag = " [" + cond + "]"
		} else {
			s.unexplained++
			kind = KindSkipUnexplained
			tag = " [?]"
		}
	}

	line := fmt.Sprintf("  %-10s ⊘ %s%s", shortPkg(e.Package), e.Test, tag)
	s.tw.EraseFooter()
	s.tw.PrintLine(s.styleLine(kind, line))
	if reason != "" {
		s.tw.PrintLine(s.styleLine(KindOutput, "             "+reason))
	}
}

// handlePkgDone prints the condensed package completion line and folds
// the package's counts into the run totals.
func (s *streamer) handlePkgDone(e testjson.TestEvent, failed bool) {
	pkg, ok := s.active[e.Package]
	if !ok {
		return
	}

	mark, kind := "✓", KindPkgPass
	if failed {
		mark, kind = "✗", KindPkgFail
		s.hasFailed = true
	}
	s.tw.EraseFooter()
	s.tw.PrintLine(s.styleLine(kind, pkgLine(mark, pkg, e.Elapsed)))

	if failed {
		// Flush any remaining package-level output
		key := bufKey(e.Package, "")
		for _, l := range s.outputBuf[key] {
			if isBoilerplate(l) {
				continue
			}
			s.tw.PrintLine(s.styleLine(KindOutput, "             "+l))
		}
		delete(s.outputBuf, key)
	}

	s.retirePkg(pkg, e.Elapsed)
}

// retirePkg folds a finished package into the run totals and drops it
// from the footer.
func (s *streamer) retirePkg(pkg *pkgProgress, elapsed float64) {
	s.totalPassed += pkg.passed
	s.totalFailed += pkg.failed
	s.totalSkipped += pkg.skipped
	s.totalPkgs++
	if elapsed > s.maxDuration {
		s.maxDuration = elapsed
	}
	delete(s.active, pkg.name)
}

// pkgLine formats a package completion line, surfacing the skip count
// when there is one.
func pkgLine(mark string, pkg *pkgProgress, elapsed float64) string {
	total := pkg.passed + pkg.failed + pkg.skipped
	line := fmt.Sprintf("  %s %-28s %d/%d", mark, pkg.short, pkg.passed, total)
	if pkg.skipped > 0 {
		line += fmt.Sprintf("  %d skipped", pkg.skipped)
	}
	return line + fmt.Sprintf("  %.1fs", elapsed)
}

func (s *streamer) handleOutput(e testjson.TestEvent) {
	output := strings.TrimRight(e.Output, "\n")
	if output == "" {
		return
	}

	key := bufKey(e.Package, e.Test)
	s.outputBuf[key] = append(s.outputBuf[key], output)

	// Package-level output: flush panic/goroutine lines immediately
	if e.Test == "" {
		if strings.Contains(output, "panic:") || strings.HasPrefix(output, "goroutine ") {
			s.tw.EraseFooter()
			s.tw.PrintLine(s.styleLine(KindOutput, "  "+output))
		}
	}
}

// isBoilerplate returns true for go test output lines that should be filtered.
func isBoilerplate(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "=== RUN") ||
		strings.HasPrefix(trimmed, "--- FAIL") ||
		strings.HasPrefix(trimmed, "--- PASS") ||
		strings.HasPrefix(trimmed, "--- SKIP")
}

// redrawFooter rebuilds the active-packages footer.
func (s *streamer) redrawFooter() {
	if len(s.active) == 0 {
		return
	}

	lines := []string{"  ─── active " + strings.Repeat("─", 30)}

	now := time.Now()
	for _, name := range s.order {
		pkg, ok := s.active[name]
		if !ok {
			continue
		}
		elapsed := now.Sub(pkg.startTime).Seconds()
		line := fmt.Sprintf("  %-7s [%d]", pkg.short, pkg.finished)
		if pkg.skipped > 0 {
			line += fmt.Sprintf(" ⊘%d", pkg.skipped)
		}
		line += fmt.Sprintf(" %-25s %5.1fs", truncateToWidth(pkg.currentTest, 25), elapsed)
		lines = append(lines, line)
	}

	s.tw.DrawFooter(lines)
}

// skipClause formats the skip fragment of the final summary.
func (s *streamer) skipClause() string {
	if s.totalSkipped == 0 {
		return ""
	}
	if s.unexplained > 0 {
		return fmt.Sprintf(", %d skipped (%d unexplained)", s.totalSkipped, s.unexplained)
	}
	return fmt.Sprintf(", %d skipped", s.totalSkipped)
}

// finish erases the footer and prints the final summary line.
func (s *streamer) finish() {
	s.tw.EraseFooter()

	totalTests := s.totalPassed + s.totalFailed + s.totalSkipped
	s.tw.PrintLine(s.styleLine(KindSeparator, "  "+strings.Repeat("─", 45)))

	if s.hasFailed {
		summary := fmt.Sprintf("  FAIL (%.1fs) %d/%d tests%s, %d packages",
			s.maxDuration, s.totalFailed, totalTests, s.skipClause(), s.totalPkgs)
		s.tw.PrintLine(s.styleLine(KindFail, summary))
		return
	}
	summary := fmt.Sprintf("  PASS (%.1fs) %d tests%s, %d packages",
		s.maxDuration, totalTests, s.skipClause(), s.totalPkgs)
	s.tw.PrintLine(s.styleLine(KindPass, summary))
}

// Run reads go test -json events from r and renders the skip ticker
// to out. Unexplained skips are reported in the summary but do not
// change the exit code; failures do.
// Returns exit code: 0=clean, 1=failures, 2=read error, 130=interrupted.
func Run(ctx context.Context, r io.Reader, out io.Writer, width, height int, style StyleFunc, explain ExplainFunc) int {
	tw := newTermWriter(out, width, height)
	s := newStreamer(tw, style, explain)

	_, err := testjson.Stream(ctx, r, func(e testjson.TestEvent) {
		s.handleEvent(e)
	})
	if err != nil {
		s.finish()
		if ctx.Err() != nil {
			return 130
		}
		return 2
	}

	s.finish()
	if s.hasFailed {
		return 1
	}
	return 0
}
