package magetasks

import (
	"fmt"
)

// QualityCheck runs all quality checks.
func QualityCheck() error {
	PrintH2Header("Quality Checks")

	// Run linters
	if err := LintAll(); err != nil {
		fmt.Println("Warning: Linting issues found")
	}

	// Run tests
	if err := TestAll(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}

	// Build
	if err := BuildAll(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	PrintSuccess("Quality checks complete")
	return nil
}

// QualityReport runs the quality checks plus the skip audit, the
// closest thing this repository has to a health report.
func QualityReport() error {
	PrintH2Header("Quality Report")

	if err := QualityCheck(); err != nil {
		return err
	}
	return TestAudit()
}
