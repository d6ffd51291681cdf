package rules

import (
	"testing"

	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/skip"
)

// Guard skips tb when a rule matches tb.Name() and the bound condition
// applies to the host platform. Tests opt in with one call at the top:
//
//	func TestKernelThrows(t *testing.T) {
//		ruleSet.Guard(t)
//		...
//	}
//
// Unmatched tests, non-matching conditions, and unidentified hosts all
// run. The SKIPIF_DISABLE and SKIPIF_RUN overrides from pkg/skip are
// honored.
func (s *Set) Guard(tb testing.TB) {
	tb.Helper()
	b, ok := s.Match(tb.Name())
	if !ok {
		return
	}
	v := b.Condition.Eval(platform.Host())
	if !v.Skip || skip.Overridden(b.Condition.Name) {
		return
	}
	tb.Skip(b.Reason)
}
