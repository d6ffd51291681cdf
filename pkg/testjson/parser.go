package testjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ParseStream parses go test -json NDJSON from r, line by line. It
// returns per-package results in first-seen order, the number of
// malformed lines skipped, and any scanner error. Malformed lines are
// counted, never fatal.
func ParseStream(r io.Reader) ([]PackageResult, int, error) {
	agg := newAggregator()
	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var malformed int
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event TestEvent
		if err := json.Unmarshal(line, &event); err != nil {
			malformed++
			continue
		}
		agg.processEvent(event)
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed, fmt.Errorf("scanning test output: %w", err)
	}
	return agg.results(), malformed, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte) ([]PackageResult, int, error) {
	return ParseStream(bytes.NewReader(data))
}

type aggregator struct {
	packages map[string]*pkgState
	order    []string
}

type pkgState struct {
	name     string
	passed   int
	failed   int
	skipped  int
	duration time.Duration
	skips    []SkipRecord
	buildErr string
	// Output buffered per test; "" keys package-level output.
	outputBuf map[string][]string
}

func newAggregator() *aggregator {
	return &aggregator{packages: make(map[string]*pkgState)}
}

func (a *aggregator) getOrCreate(name string) *pkgState {
	if pkg, ok := a.packages[name]; ok {
		return pkg
	}
	pkg := &pkgState{
		name:      name,
		outputBuf: make(map[string][]string),
	}
	a.packages[name] = pkg
	a.order = append(a.order, name)
	return pkg
}

func (a *aggregator) processEvent(e TestEvent) {
	pkg := a.getOrCreate(e.Package)

	switch e.Action {
	case ActionPass:
		if e.Test != "" {
			pkg.passed++
		} else {
			pkg.duration = time.Duration(e.Elapsed * float64(time.Second))
		}

	case ActionFail:
		if e.Test != "" {
			pkg.failed++
		} else {
			pkg.duration = time.Duration(e.Elapsed * float64(time.Second))
			// Failed with nothing run: compile or setup failure.
			if pkg.passed == 0 && pkg.failed == 0 && pkg.skipped == 0 {
				pkg.buildErr = strings.Join(pkg.outputBuf[""], "\n")
			}
		}

	case ActionSkip:
		if e.Test != "" {
			pkg.skipped++
			pkg.skips = append(pkg.skips, SkipRecord{
				Package: e.Package,
				Test:    e.Test,
				Reason:  SkipReason(pkg.outputBuf[e.Test]),
			})
		} else {
			// Package-level skip ("[no test files]").
			pkg.duration = time.Duration(e.Elapsed * float64(time.Second))
		}

	case ActionOutput:
		output := strings.TrimRight(e.Output, "\n")
		if output == "" {
			return
		}
		pkg.outputBuf[e.Test] = append(pkg.outputBuf[e.Test], output)
	}
}

func (a *aggregator) results() []PackageResult {
	results := make([]PackageResult, 0, len(a.order))
	for _, name := range a.order {
		pkg := a.packages[name]
		// Drop packages with no test activity
		if pkg.passed == 0 && pkg.failed == 0 && pkg.skipped == 0 && pkg.buildErr == "" {
			continue
		}
		results = append(results, PackageResult{
			Name:       pkg.name,
			Passed:     pkg.passed,
			Failed:     pkg.failed,
			Skipped:    pkg.skipped,
			Duration:   pkg.duration,
			Skips:      pkg.skips,
			BuildError: pkg.buildErr,
		})
	}
	return results
}

// SkipReason reconstructs the t.Skip message from a test's buffered
// output. The stream interleaves framing lines ("=== RUN",
// "--- SKIP") with log lines of the form "    file_test.go:12: msg";
// framing is dropped, source locations are stripped, and continuation
// lines of a multi-line message are joined with a space.
func SkipReason(lines []string) string {
	var parts []string
	for _, ln := range lines {
		t := strings.TrimSpace(ln)
		if t == "" || strings.HasPrefix(t, "=== ") || strings.HasPrefix(t, "--- ") {
			continue
		}
		if s := stripLocation(t); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// stripLocation removes a leading "file.go:NN: " from a log line,
// returning the line unchanged when no such prefix exists.
func stripLocation(line string) string {
	i := strings.Index(line, ".go:")
	if i < 0 || strings.ContainsRune(line[:i], ' ') {
		return line
	}
	rest := line[i+len(".go:"):]
	j := strings.Index(rest, ": ")
	if j <= 0 {
		return line
	}
	for _, r := range rest[:j] {
		if r < '0' || r > '9' {
			return line
		}
	}
	return rest[j+2:]
}
