package skip

import (
	"os"
	"strings"
	"testing"

	"github.com/dkoosis/skipif/pkg/platform"
)

// Environment overrides honored by the testing helpers. Eval itself
// never reads the environment; overrides apply only at the point a
// test asks to be skipped, so evaluation stays a pure function of the
// platform descriptor.
//
//	SKIPIF_DISABLE=1          run everything, ignore all conditions
//	SKIPIF_RUN=name[,name]    run tests guarded by the named conditions
//	SKIPIF_RUN=all            same as SKIPIF_DISABLE
const (
	EnvDisable = "SKIPIF_DISABLE"
	EnvRun     = "SKIPIF_RUN"
)

// If skips tb when c matches the host platform, reporting the
// condition's reason. On non-matching or unidentified platforms it
// does nothing and the test proceeds.
func If(tb testing.TB, c Condition) {
	tb.Helper()
	v := c.Eval(platform.Host())
	if !v.Skip || Overridden(c.Name) {
		return
	}
	tb.Skip(v.Reason)
}

// IfAny skips tb on the first condition that matches the host
// platform.
func IfAny(tb testing.TB, conds ...Condition) {
	tb.Helper()
	host := platform.Host()
	for _, c := range conds {
		v := c.Eval(host)
		if v.Skip && !Overridden(c.Name) {
			tb.Skip(v.Reason)
			return
		}
	}
}

// Unless skips tb when c does NOT match the host platform, for tests
// that only make sense on one platform. The condition's reason should
// read as a requirement ("requires linux"). Fail open still holds: an
// unidentified host runs the test.
func Unless(tb testing.TB, c Condition) {
	tb.Helper()
	host := platform.Host()
	if !host.Known() || Overridden(c.Name) {
		return
	}
	if c.Match != nil && c.Match(host) {
		return
	}
	tb.Skip(c.Reason)
}

// Named skips tb when the condition registered under name in Default
// matches the host platform. Unregistered names are ignored, keeping
// the fail-open contract when registration was forgotten.
func Named(tb testing.TB, name string) {
	tb.Helper()
	c, ok := Default.Lookup(name)
	if !ok {
		return
	}
	If(tb, c)
}

// Overridden reports whether the environment asks to run tests guarded
// by the named condition anyway.
func Overridden(name string) bool {
	if envTrue(os.Getenv(EnvDisable)) {
		return true
	}
	run := os.Getenv(EnvRun)
	if run == "" {
		return false
	}
	for _, f := range strings.Split(run, ",") {
		f = strings.TrimSpace(f)
		if f == "all" || strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

func envTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
