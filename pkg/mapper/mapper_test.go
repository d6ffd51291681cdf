package mapper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/rules"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/testjson"
)

func TestFromEvaluation_SkipLabel(t *testing.T) {
	t.Parallel()

	e := skip.EvalAll(skip.Builtins(), platform.Descriptor{OS: "darwin", Arch: "arm64"})
	ps := FromEvaluation(e)

	require.NotEmpty(t, ps)
	sum, ok := ps[0].(*pattern.Summary)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(sum.Label, "SKIP"), "label = %q", sum.Label)
	assert.Contains(t, sum.Label, "darwin/arm64")
	assert.Equal(t, pattern.SummaryKindEval, sum.Kind)

	require.Len(t, ps, 2)
	tbl, ok := ps[1].(*pattern.ConditionTable)
	require.True(t, ok)
	require.Len(t, tbl.Rows, 1)
	assert.True(t, tbl.Rows[0].Skip)
	assert.Equal(t, "macos-arm64-jit-exceptions", tbl.Rows[0].Name)
}

func TestFromEvaluation_RunLabel(t *testing.T) {
	t.Parallel()

	e := skip.EvalAll(skip.Builtins(), platform.Descriptor{OS: "linux", Arch: "arm64"})
	ps := FromEvaluation(e)

	sum := ps[0].(*pattern.Summary)
	assert.True(t, strings.HasPrefix(sum.Label, "RUN"), "label = %q", sum.Label)
}

func TestFromEvaluation_UnknownPlatform(t *testing.T) {
	t.Parallel()

	e := skip.EvalAll(skip.Builtins(), platform.Descriptor{})
	ps := FromEvaluation(e)

	sum := ps[0].(*pattern.Summary)
	assert.Contains(t, sum.Label, "failing open")
	assert.True(t, strings.HasPrefix(sum.Label, "RUN"))
}

func TestFromList_NeutralLabel(t *testing.T) {
	t.Parallel()

	e := skip.EvalAll(skip.Builtins(), platform.Descriptor{OS: "darwin", Arch: "arm64"})
	ps := FromList(e)

	sum := ps[0].(*pattern.Summary)
	assert.True(t, strings.HasPrefix(sum.Label, "CONDITIONS"), "label = %q", sum.Label)
	assert.Equal(t, pattern.SummaryKindList, sum.Kind)
}

func auditReport(unexplained bool) *audit.Report {
	skips := []testjson.SkipRecord{{
		Package: "example.com/mod/pkg/jit",
		Test:    "TestThrowCatch",
		Reason:  skip.MacOSArm64JITExceptions.Reason,
	}}
	if unexplained {
		skips = append(skips, testjson.SkipRecord{
			Package: "example.com/mod/pkg/jit",
			Test:    "TestMystery",
			Reason:  "just because",
		})
	}
	results := []testjson.PackageResult{{
		Name:    "example.com/mod/pkg/jit",
		Passed:  3,
		Skipped: len(skips),
		Skips:   skips,
	}}
	host := platform.Descriptor{OS: "darwin", Arch: "arm64"}
	return audit.Build(host, results, skip.Builtins(), nil)
}

func TestFromAudit_CleanRun(t *testing.T) {
	t.Parallel()

	ps := FromAudit(auditReport(false))

	require.Len(t, ps, 2)
	sum := ps[0].(*pattern.Summary)
	assert.True(t, strings.HasPrefix(sum.Label, "PASS"), "label = %q", sum.Label)
	assert.Equal(t, pattern.SummaryKindAudit, sum.Kind)

	tbl := ps[1].(*pattern.SkipTable)
	assert.Contains(t, tbl.Label, "Explained")
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "pkg/jit", tbl.Rows[0].Package, "package name shortened")
}

func TestFromAudit_UnexplainedFirst(t *testing.T) {
	t.Parallel()

	ps := FromAudit(auditReport(true))

	require.Len(t, ps, 3)
	sum := ps[0].(*pattern.Summary)
	assert.True(t, strings.HasPrefix(sum.Label, "UNEXPLAINED"), "label = %q", sum.Label)

	first := ps[1].(*pattern.SkipTable)
	assert.Contains(t, first.Label, "Unexplained")
	require.Len(t, first.Rows, 1)
	assert.Equal(t, "TestMystery", first.Rows[0].Test)
	assert.False(t, first.Rows[0].Explained)

	second := ps[2].(*pattern.SkipTable)
	assert.Contains(t, second.Label, "Explained")
}

func TestFromRules_RowsCarryPatterns(t *testing.T) {
	t.Parallel()

	set, err := rules.Parse([]byte(`
version: 1
rules:
  - match: "TestJIT*"
    condition: macos-arm64-jit-exceptions
`))
	require.NoError(t, err)

	host := platform.Descriptor{OS: "darwin", Arch: "arm64"}
	ps := FromRules(host, "ci/skiprules.yaml", set.Evaluate(host))

	require.Len(t, ps, 2)
	sum := ps[0].(*pattern.Summary)
	assert.Contains(t, sum.Label, "ci/skiprules.yaml")
	assert.Contains(t, sum.Label, "1 of 1 rules apply")

	tbl := ps[1].(*pattern.ConditionTable)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "TestJIT*", tbl.Rows[0].Pattern)
	assert.True(t, tbl.Rows[0].Skip)
}

func TestShortPkgName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"example.com/mod/pkg/jit", "pkg/jit"},
		{"example.com/mod/internal/codegen", "internal/codegen"},
		{"example.com/mod/cmd/tool", "cmd/tool"},
		{"example.com/a/b/c", "b/c"},
		{"short", "short"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortPkgName(tt.in), "ShortPkgName(%q)", tt.in)
	}
}
