package main

import (
	"fmt"

	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/mapper"
	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/render"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/testjson"
)

// Renders representative skipif output in every theme so terminal
// rendering can be eyeballed after style changes:
//
//	go run .
func main() {
	fmt.Println("--- skipif terminal rendering check ---")
	fmt.Println("Note: If you see raw escape codes (like '[1m'), your terminal might not be interpreting them.")
	fmt.Println()

	fmt.Println("--- Glyphs the renderer relies on ---")
	fmt.Println("Icons: ✓ ⊘ ✗ ● ·")
	fmt.Println("Wide characters should align: こんにちは")
	fmt.Println()

	patterns := samplePatterns()
	for _, name := range []string{"default", "orca", "mono"} {
		fmt.Printf("=== Theme: %s ===\n\n", name)
		fmt.Println(render.NewTerminal(render.ThemeByName(name), 100).Render(patterns))
	}

	fmt.Println("--- Check complete ---")
}

// samplePatterns builds one of each pattern kind: an evaluation with an
// applying condition, and an audit with explained, unexplained, and
// failing entries.
func samplePatterns() []pattern.Pattern {
	host := platform.Descriptor{OS: platform.Darwin, Arch: platform.ARM64}
	conds := skip.Builtins()

	patterns := mapper.FromEvaluation(skip.EvalAll(conds, host))

	results := []testjson.PackageResult{
		{
			Name:    "example.com/engine/jit",
			Passed:  14,
			Skipped: 2,
			Skips: []testjson.SkipRecord{
				{
					Package: "example.com/engine/jit",
					Test:    "TestThrowCatch",
					Reason:  conds[0].Reason,
				},
				{
					Package: "example.com/engine/jit",
					Test:    "TestSlowPath",
					Reason:  "too slow for CI",
				},
			},
		},
		{Name: "example.com/engine/parser", Passed: 31, Failed: 1},
	}
	report := audit.Build(host, results, conds, nil)
	return append(patterns, mapper.FromAudit(report)...)
}
