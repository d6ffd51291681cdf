//go:build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/mapper"
	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/render"
	"github.com/dkoosis/skipif/pkg/rules"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/testjson"
)

// Renders every report surface in every theme and format and saves the
// outputs to files for design review and iteration:
//
//	go run cmd/visualtest.go /tmp/skipif-visual
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-dir>\n", os.Args[0])
		os.Exit(1)
	}

	outputDir := os.Args[1]
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering visual scenarios, saving outputs to: %s\n\n", outputDir)

	scenarios := []struct {
		name     string
		patterns []pattern.Pattern
		filename string
	}{
		{"Eval - Condition Applies", evalApplies(), "01_eval_applies.txt"},
		{"Eval - Clean Platform", evalClean(), "02_eval_clean.txt"},
		{"Eval - Unknown Platform", evalUnknown(), "03_eval_unknown.txt"},
		{"List - Condition Catalog", listCatalog(), "04_list_catalog.txt"},
		{"Audit - All Explained", auditExplained(), "05_audit_explained.txt"},
		{"Audit - Unexplained Skips", auditUnexplained(), "06_audit_unexplained.txt"},
		{"Audit - Failures and Build Errors", auditFailures(), "07_audit_failures.txt"},
		{"Vet - Rule Verdicts", vetVerdicts(), "08_vet_verdicts.txt"},
	}

	for i, sc := range scenarios {
		fmt.Printf("[%d/%d] Rendering: %s\n", i+1, len(scenarios), sc.name)

		var sb strings.Builder
		for _, theme := range []string{"default", "orca", "mono"} {
			sb.WriteString(fmt.Sprintf("═══ terminal / %s ═══\n\n", theme))
			sb.WriteString(render.NewTerminal(render.ThemeByName(theme), 100).Render(sc.patterns))
			sb.WriteString("\n")
		}
		sb.WriteString("═══ llm ═══\n\n")
		sb.WriteString(render.NewLLM().Render(sc.patterns))
		sb.WriteString("\n═══ json ═══\n\n")
		sb.WriteString(render.NewJSON().Render(sc.patterns))

		outputPath := filepath.Join(outputDir, sc.filename)
		if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "  Error writing file: %v\n", err)
			continue
		}
		fmt.Printf("  ✓ Saved to: %s\n", sc.filename)
	}

	fmt.Printf("\n✓ Visual scenarios complete!\n")
	fmt.Printf("Review outputs in: %s\n", outputDir)
}

var (
	affected = platform.Descriptor{OS: platform.Darwin, Arch: platform.ARM64}
	clean    = platform.Descriptor{OS: platform.Linux, Arch: platform.AMD64}
)

func evalApplies() []pattern.Pattern {
	return mapper.FromEvaluation(skip.EvalAll(skip.Builtins(), affected))
}

func evalClean() []pattern.Pattern {
	return mapper.FromEvaluation(skip.EvalAll(skip.Builtins(), clean))
}

func evalUnknown() []pattern.Pattern {
	return mapper.FromEvaluation(skip.EvalAll(skip.Builtins(), platform.Descriptor{}))
}

func listCatalog() []pattern.Pattern {
	return mapper.FromList(skip.EvalAll(skip.Builtins(), affected))
}

func auditExplained() []pattern.Pattern {
	results := []testjson.PackageResult{
		{
			Name:    "example.com/engine/jit",
			Passed:  24,
			Skipped: 1,
			Skips: []testjson.SkipRecord{
				{
					Package: "example.com/engine/jit",
					Test:    "TestThrowCatch",
					Reason:  skip.MacOSArm64JITExceptions.Reason,
				},
			},
		},
		{Name: "example.com/engine/parser", Passed: 58},
	}
	return mapper.FromAudit(audit.Build(affected, results, skip.Builtins(), nil))
}

func auditUnexplained() []pattern.Pattern {
	results := []testjson.PackageResult{
		{
			Name:    "example.com/engine/jit",
			Passed:  22,
			Skipped: 3,
			Skips: []testjson.SkipRecord{
				{
					Package: "example.com/engine/jit",
					Test:    "TestThrowCatch",
					Reason:  skip.MacOSArm64JITExceptions.Reason,
				},
				{
					Package: "example.com/engine/jit",
					Test:    "TestSlowPath",
					Reason:  "too slow for CI",
				},
				{
					Package: "example.com/engine/jit",
					Test:    "TestFlakyWatcher",
					Reason:  "",
				},
			},
		},
	}
	return mapper.FromAudit(audit.Build(affected, results, skip.Builtins(), nil))
}

func auditFailures() []pattern.Pattern {
	results := []testjson.PackageResult{
		{Name: "example.com/engine/jit", Passed: 20, Failed: 2},
		{Name: "example.com/engine/codegen", BuildError: "undefined: emitPrologue"},
		{Name: "example.com/engine/parser", Passed: 58},
	}
	return mapper.FromAudit(audit.Build(clean, results, skip.Builtins(), nil))
}

func vetVerdicts() []pattern.Pattern {
	verdicts := []rules.RuleVerdict{
		{
			Pattern:   "TestJIT*",
			Condition: skip.MacOSArm64JITExceptions.Name,
			Reason:    skip.MacOSArm64JITExceptions.Reason,
			Verdict:   skip.Verdict{Skip: true, Reason: skip.MacOSArm64JITExceptions.Reason},
		},
		{
			Pattern:   "TestKernel/throws_*",
			Condition: "no-avx512",
			Reason:    "AVX-512 kernels are not built on arm64",
			Verdict:   skip.Verdict{},
		},
	}
	return mapper.FromRules(affected, "skiprules.yaml", verdicts)
}
