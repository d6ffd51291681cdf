// This file defines the full build and verification workflow.
package magetasks

// RunAll executes the comprehensive build and test workflow: build,
// lint, tests, then the skip audit over the suite's own skips.
func RunAll() error {
	PrintH1Header("skipif Build & Verify")

	if err := BuildAll(); err != nil {
		return err
	}
	if err := LintAll(); err != nil {
		return err
	}
	if err := TestAll(); err != nil {
		return err
	}
	return TestAudit()
}
