package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/rules"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/testjson"
)

var host = platform.Descriptor{OS: "darwin", Arch: "arm64"}

func results() []testjson.PackageResult {
	return []testjson.PackageResult{
		{
			Name:    "example.com/jit",
			Passed:  4,
			Skipped: 2,
			Skips: []testjson.SkipRecord{
				{
					Package: "example.com/jit",
					Test:    "TestThrowCatch",
					Reason:  skip.MacOSArm64JITExceptions.Reason,
				},
				{
					Package: "example.com/jit",
					Test:    "TestLocalLaziness",
					Reason:  "flaky, see backlog",
				},
			},
		},
		{
			Name:   "example.com/clean",
			Passed: 7,
		},
	}
}

func TestBuild_ExplainsByConditionReason(t *testing.T) {
	t.Parallel()

	r := Build(host, results(), skip.Builtins(), nil)

	require.Len(t, r.Skips, 2)
	jit := r.Skips[0]
	assert.True(t, jit.Explained)
	assert.Equal(t, "macos-arm64-jit-exceptions", jit.Condition)

	flaky := r.Skips[1]
	assert.False(t, flaky.Explained)
	assert.Empty(t, flaky.Condition)
}

func TestBuild_ExplainsByRuleBinding(t *testing.T) {
	t.Parallel()

	set, err := rules.Parse([]byte(`
version: 1
conditions:
  local-laziness:
    os: darwin
    reason: "quarantined on darwin"
rules:
  - match: "TestLocalLaziness"
    condition: local-laziness
`))
	require.NoError(t, err)

	r := Build(host, results(), skip.Builtins(), []*rules.Set{set})

	require.Len(t, r.Skips, 2)
	assert.True(t, r.Skips[1].Explained, "rule binding explains the skip")
	assert.Equal(t, "local-laziness", r.Skips[1].Condition)
	assert.True(t, r.Clean())
}

func TestBuild_ExplainsByConditionName(t *testing.T) {
	t.Parallel()

	res := []testjson.PackageResult{{
		Name:    "p",
		Skipped: 1,
		Skips: []testjson.SkipRecord{{
			Package: "p",
			Test:    "TestX",
			Reason:  "disabled via macos-arm64-jit-exceptions",
		}},
	}}

	r := Build(host, res, skip.Builtins(), nil)
	require.Len(t, r.Skips, 1)
	assert.True(t, r.Skips[0].Explained)
}

func TestBuild_ComputesTotals(t *testing.T) {
	t.Parallel()

	r := Build(host, results(), skip.Builtins(), nil)

	assert.Equal(t, 2, r.Totals.Packages)
	assert.Equal(t, 11, r.Totals.Passed)
	assert.Equal(t, 0, r.Totals.Failed)
	assert.Equal(t, 2, r.Totals.Skipped)
	assert.Equal(t, 1, r.Totals.Explained)
	assert.Equal(t, 1, r.Totals.Unexplained)
	assert.False(t, r.Clean())
	assert.False(t, r.Failed())
}

func TestBuild_CountsBuildErrors(t *testing.T) {
	t.Parallel()

	res := []testjson.PackageResult{{
		Name:       "example.com/broken",
		BuildError: "syntax error",
	}}

	r := Build(host, res, nil, nil)
	assert.Equal(t, 1, r.Totals.BuildErrors)
	assert.True(t, r.Failed())
	assert.True(t, r.Clean(), "no skips means nothing unexplained")
}

func TestBuild_EmptyRun(t *testing.T) {
	t.Parallel()

	r := Build(host, nil, skip.Builtins(), nil)
	assert.Empty(t, r.Skips)
	assert.True(t, r.Clean())
	assert.Equal(t, 0, r.Totals.Packages)
}
