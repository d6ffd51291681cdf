// Package rules loads declarative skip rule files. A rule file is a
// YAML document that binds test-name patterns to skip conditions, so
// platform quirks live in one reviewable place instead of being
// scattered through test sources:
//
//	version: 1
//	conditions:
//	  no-avx512:
//	    os: linux
//	    arch: arm64
//	    reason: "AVX-512 kernels are not built on arm64"
//	rules:
//	  - match: "TestJIT*"
//	    condition: macos-arm64-jit-exceptions
//	  - match: "TestKernel/throws_*"
//	    condition: no-avx512
//
// Patterns are doublestar globs matched against the full test name,
// with "/" separating subtests. Built-in conditions are referenced by
// name; file-local conditions may shadow them.
//
// Rule files are validated strictly at load time. The skip decision at
// run time still fails open: a condition that does not match, or a
// platform that cannot be identified, runs the test.
package rules

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/skip"
	"gopkg.in/yaml.v3"
)

// Version is the rule file schema version this package reads.
const Version = 1

// File is the YAML shape of a rule file.
type File struct {
	Version    int                      `yaml:"version"`
	Conditions map[string]ConditionSpec `yaml:"conditions,omitempty"`
	Rules      []Rule                   `yaml:"rules,omitempty"`
}

// ConditionSpec declares a condition in a rule file. A leaf spec sets
// os and/or arch; a composite spec sets exactly one of all_of, any_of,
// or not. Reason is required on named (top-level) conditions only.
type ConditionSpec struct {
	OS     string          `yaml:"os,omitempty"`
	Arch   string          `yaml:"arch,omitempty"`
	Reason string          `yaml:"reason,omitempty"`
	AllOf  []ConditionSpec `yaml:"all_of,omitempty"`
	AnyOf  []ConditionSpec `yaml:"any_of,omitempty"`
	Not    *ConditionSpec  `yaml:"not,omitempty"`
}

// Rule binds a test-name glob to a condition. Reason, when set,
// overrides the condition's reason for tests matched by this rule.
type Rule struct {
	Match     string `yaml:"match"`
	Condition string `yaml:"condition"`
	Reason    string `yaml:"reason,omitempty"`
}

// Binding is a matched rule with its resolved condition and effective
// reason.
type Binding struct {
	Rule      Rule
	Condition skip.Condition
	Reason    string
}

// Set is a compiled rule file. Immutable after load, safe for
// concurrent use from parallel tests.
type Set struct {
	path     string
	conds    map[string]skip.Condition
	local    []string
	bindings []Binding
}

// Parse compiles a rule file from YAML source. Any structural problem
// is an error: wrong version, a rule with an empty or malformed
// pattern, a reference to an unknown condition, or a named condition
// without a reason.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules failed: %w", err)
	}
	return Compile(&f)
}

// Load reads and compiles the rule file at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file failed: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Compile validates f and resolves its rules against the file-local
// conditions plus the built-ins.
func Compile(f *File) (*Set, error) {
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported rules version %d (want %d)", f.Version, Version)
	}

	conds := make(map[string]skip.Condition)
	for _, c := range skip.Builtins() {
		conds[c.Name] = c
	}

	local := make([]string, 0, len(f.Conditions))
	for name, spec := range f.Conditions {
		c, err := compileCondition(name, spec)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", name, err)
		}
		conds[name] = c
		local = append(local, name)
	}
	sort.Strings(local)

	bindings := make([]Binding, 0, len(f.Rules))
	for i, r := range f.Rules {
		if r.Match == "" {
			return nil, fmt.Errorf("rule %d: match pattern is empty", i+1)
		}
		if !doublestar.ValidatePattern(r.Match) {
			return nil, fmt.Errorf("rule %d: invalid pattern %q", i+1, r.Match)
		}
		if r.Condition == "" {
			return nil, fmt.Errorf("rule %d: condition is empty", i+1)
		}
		c, ok := conds[r.Condition]
		if !ok {
			return nil, fmt.Errorf("rule %d: unknown condition %q", i+1, r.Condition)
		}
		reason := r.Reason
		if reason == "" {
			reason = c.Reason
		}
		bindings = append(bindings, Binding{Rule: r, Condition: c, Reason: reason})
	}

	return &Set{conds: conds, local: local, bindings: bindings}, nil
}

func compileCondition(name string, spec ConditionSpec) (skip.Condition, error) {
	if spec.Reason == "" {
		return skip.Condition{}, fmt.Errorf("reason is required")
	}
	m, err := compileSpec(spec)
	if err != nil {
		return skip.Condition{}, err
	}
	return skip.Condition{Name: name, Reason: spec.Reason, Match: m}, nil
}

func compileSpec(spec ConditionSpec) (skip.Matcher, error) {
	leaf := spec.OS != "" || spec.Arch != ""

	composites := 0
	if len(spec.AllOf) > 0 {
		composites++
	}
	if len(spec.AnyOf) > 0 {
		composites++
	}
	if spec.Not != nil {
		composites++
	}

	switch {
	case leaf && composites > 0:
		return nil, fmt.Errorf("os/arch cannot be combined with all_of/any_of/not")
	case composites > 1:
		return nil, fmt.Errorf("at most one of all_of, any_of, not may be set")
	case leaf:
		switch {
		case spec.OS != "" && spec.Arch != "":
			return skip.On(spec.OS, spec.Arch), nil
		case spec.OS != "":
			return skip.OnOS(spec.OS), nil
		default:
			return skip.OnArch(spec.Arch), nil
		}
	case len(spec.AllOf) > 0:
		ms, err := compileSpecs(spec.AllOf)
		if err != nil {
			return nil, fmt.Errorf("all_of: %w", err)
		}
		return skip.All(ms...), nil
	case len(spec.AnyOf) > 0:
		ms, err := compileSpecs(spec.AnyOf)
		if err != nil {
			return nil, fmt.Errorf("any_of: %w", err)
		}
		return skip.Any(ms...), nil
	case spec.Not != nil:
		m, err := compileSpec(*spec.Not)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return skip.Not(m), nil
	default:
		return nil, fmt.Errorf("condition matches nothing (set os, arch, or a combinator)")
	}
}

func compileSpecs(specs []ConditionSpec) ([]skip.Matcher, error) {
	ms := make([]skip.Matcher, 0, len(specs))
	for i, s := range specs {
		m, err := compileSpec(s)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// Match returns the binding of the first rule whose pattern matches
// testName. Patterns were validated at load time.
func (s *Set) Match(testName string) (Binding, bool) {
	for _, b := range s.bindings {
		if doublestar.MatchUnvalidated(b.Rule.Match, testName) {
			return b, true
		}
	}
	return Binding{}, false
}

// RuleVerdict reports one rule's evaluation against a descriptor.
type RuleVerdict struct {
	Pattern   string       `json:"pattern"`
	Condition string       `json:"condition"`
	Reason    string       `json:"reason"`
	Verdict   skip.Verdict `json:"verdict"`
}

// Evaluate returns every rule's verdict on d, in file order. A skip
// verdict carries the rule's effective reason.
func (s *Set) Evaluate(d platform.Descriptor) []RuleVerdict {
	out := make([]RuleVerdict, 0, len(s.bindings))
	for _, b := range s.bindings {
		v := b.Condition.Eval(d)
		if v.Skip {
			v.Reason = b.Reason
		}
		out = append(out, RuleVerdict{
			Pattern:   b.Rule.Match,
			Condition: b.Condition.Name,
			Reason:    b.Reason,
			Verdict:   v,
		})
	}
	return out
}

// Path returns the file the set was loaded from, or "" for Parse.
func (s *Set) Path() string { return s.path }

// Len returns the number of rules.
func (s *Set) Len() int { return len(s.bindings) }

// Conditions returns the file-local conditions sorted by name.
// Built-ins referenced by rules are not included.
func (s *Set) Conditions() []skip.Condition {
	out := make([]skip.Condition, 0, len(s.local))
	for _, name := range s.local {
		out = append(out, s.conds[name])
	}
	return out
}
