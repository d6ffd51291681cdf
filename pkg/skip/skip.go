// Package skip decides whether a test should run on the current
// platform. Conditions are named, reusable predicates over an
// (os, arch) descriptor, each carrying a human-readable reason that the
// test runner surfaces when the test is skipped.
//
// The decision is a pure function of the two platform identifiers: it
// does not depend on test ordering, prior outcomes, or any mutable
// process state. When the platform cannot be identified the answer is
// always "run" — skipping is a convenience, and an introspection
// failure must never hide a test.
package skip

import (
	"github.com/dkoosis/skipif/pkg/platform"
)

// Verdict is the outcome of evaluating one condition against one
// platform descriptor.
type Verdict struct {
	Skip   bool   `json:"skip"`
	Reason string `json:"reason,omitempty"`
}

// Matcher reports whether a condition applies to a descriptor.
// Matchers must be pure: same descriptor in, same answer out.
type Matcher func(platform.Descriptor) bool

// Condition is a named, reusable skip condition. Zero-value conditions
// (nil Match) never skip.
type Condition struct {
	// Name identifies the condition in rule files, CLI output, and
	// environment overrides. Lowercase kebab-case by convention.
	Name string

	// Reason is the fixed explanation reported when a test is skipped.
	Reason string

	// Match reports whether the condition applies to a descriptor.
	Match Matcher
}

// Eval evaluates the condition against d.
//
// Fail open: when d is not fully known (either identifier empty) the
// verdict is always "run", regardless of what Match would say. This is
// the one place that policy is enforced, so matchers — including
// negated ones — cannot accidentally skip on an unidentified platform.
func (c Condition) Eval(d platform.Descriptor) Verdict {
	if !d.Known() {
		return Verdict{}
	}
	if c.Match == nil || !c.Match(d) {
		return Verdict{}
	}
	return Verdict{Skip: true, Reason: c.Reason}
}

// On returns a matcher for an exact os/arch pair. Inputs are
// normalized, so On("macos", "aarch64") matches darwin/arm64.
func On(os, arch string) Matcher {
	want := platform.Normalize(os, arch)
	return func(d platform.Descriptor) bool {
		return d.OS == want.OS && d.Arch == want.Arch
	}
}

// OnOS returns a matcher for an operating system, any architecture.
func OnOS(os string) Matcher {
	want := platform.Normalize(os, "").OS
	return func(d platform.Descriptor) bool {
		return d.OS == want
	}
}

// OnArch returns a matcher for an architecture, any operating system.
func OnArch(arch string) Matcher {
	want := platform.Normalize("", arch).Arch
	return func(d platform.Descriptor) bool {
		return d.Arch == want
	}
}

// All combines matchers conjunctively. All() with no arguments never
// matches.
func All(ms ...Matcher) Matcher {
	return func(d platform.Descriptor) bool {
		if len(ms) == 0 {
			return false
		}
		for _, m := range ms {
			if m == nil || !m(d) {
				return false
			}
		}
		return true
	}
}

// Any combines matchers disjunctively.
func Any(ms ...Matcher) Matcher {
	return func(d platform.Descriptor) bool {
		for _, m := range ms {
			if m != nil && m(d) {
				return true
			}
		}
		return false
	}
}

// Not inverts a matcher. The fail-open rule in Eval still applies: a
// negated matcher cannot cause a skip on an unknown platform.
func Not(m Matcher) Matcher {
	return func(d platform.Descriptor) bool {
		return m == nil || !m(d)
	}
}

// MacOSArm64JITExceptions guards tests that expect to catch exceptions
// thrown out of JIT-compiled native code. On macOS arm64 such
// exceptions cannot be caught: the process aborts instead of unwinding
// (llvm-project#49036). Attempting to exercise that path crashes the
// test binary, so affected tests are skipped.
var MacOSArm64JITExceptions = Condition{
	Name:   "macos-arm64-jit-exceptions",
	Reason: "JIT exception handling broken on macOS arm64: exceptions from JIT-compiled code abort instead of unwinding (llvm-project#49036)",
	Match:  On(platform.Darwin, platform.ARM64),
}

// Builtins returns the conditions that ship with skipif. Callers opt
// into them via RegisterBuiltins or by listing them explicitly; nothing
// is registered at import time.
func Builtins() []Condition {
	return []Condition{
		MacOSArm64JITExceptions,
	}
}

// Result pairs a condition with its verdict for one descriptor.
type Result struct {
	Condition Condition
	Verdict   Verdict
}

// Evaluation is the outcome of evaluating a set of conditions against
// one descriptor, in input order.
type Evaluation struct {
	Platform platform.Descriptor
	Results  []Result
}

// EvalAll evaluates conds against d, preserving order.
func EvalAll(conds []Condition, d platform.Descriptor) Evaluation {
	e := Evaluation{Platform: d, Results: make([]Result, 0, len(conds))}
	for _, c := range conds {
		e.Results = append(e.Results, Result{Condition: c, Verdict: c.Eval(d)})
	}
	return e
}

// AnySkip reports whether at least one verdict says skip.
func (e Evaluation) AnySkip() bool {
	for _, r := range e.Results {
		if r.Verdict.Skip {
			return true
		}
	}
	return false
}
