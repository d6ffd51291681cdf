package magetasks

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/mapper"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/render"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/testjson"
)

// TestAudit runs the test suite and audits its skips with skipif
// itself. Every skip in this repository must trace to a registered
// condition; an unexplained skip fails the task even when all tests
// pass.
func TestAudit() error {
	PrintH2Header("Skip Audit")

	fmt.Println("Running tests with skip audit...")
	out, runErr := exec.Command("go", "test", "-json", "./...").Output()
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return fmt.Errorf("running tests: %w", runErr)
	}

	// A nonzero test exit still leaves usable JSON on stdout, so the
	// audit renders either way.
	results, _, err := testjson.ParseBytes(out)
	if err != nil {
		return fmt.Errorf("parsing test output: %w", err)
	}

	reg := skip.NewRegistry()
	skip.RegisterBuiltins(reg)
	report := audit.Build(platform.Host(), results, reg.Conditions(), nil)

	fmt.Print(render.NewTerminal(render.DefaultTheme(), 100).Render(mapper.FromAudit(report)))

	if runErr != nil {
		PrintError("Tests failed")
		return runErr
	}
	if !report.Clean() {
		PrintError(fmt.Sprintf("%d skips without a registered condition", report.Totals.Unexplained))
		return fmt.Errorf("unexplained skips: %d", report.Totals.Unexplained)
	}

	PrintSuccess("Every skip traces to a registered condition")
	return nil
}
