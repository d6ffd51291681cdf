package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/skipif/pkg/platform"
)

const validRules = `
version: 1
conditions:
  no-avx512:
    os: linux
    arch: arm64
    reason: "AVX-512 kernels are not built on arm64"
rules:
  - match: "TestJIT*"
    condition: macos-arm64-jit-exceptions
  - match: "TestKernel/throws_*"
    condition: no-avx512
    reason: "kernel throw tests need AVX-512"
`

func TestParse_Compiles_Valid_File(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(validRules))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Empty(t, s.Path())

	conds := s.Conditions()
	require.Len(t, conds, 1, "only file-local conditions are listed")
	assert.Equal(t, "no-avx512", conds[0].Name)
}

func TestParse_Rejects_Wrong_Version(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		`rules: []`,
		"version: 2\nrules: []",
	} {
		_, err := Parse([]byte(src))
		assert.ErrorContains(t, err, "version")
	}
}

func TestParse_Rejects_Bad_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			"unknown condition",
			"version: 1\nrules:\n  - match: \"TestX\"\n    condition: nonexistent",
			`unknown condition "nonexistent"`,
		},
		{
			"empty match",
			"version: 1\nrules:\n  - condition: macos-arm64-jit-exceptions",
			"match pattern is empty",
		},
		{
			"invalid pattern",
			"version: 1\nrules:\n  - match: \"Test[\"\n    condition: macos-arm64-jit-exceptions",
			"invalid pattern",
		},
		{
			"empty condition",
			"version: 1\nrules:\n  - match: \"TestX\"",
			"condition is empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParse_Rejects_Bad_Conditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			"missing reason",
			"version: 1\nconditions:\n  c:\n    os: linux",
			"reason is required",
		},
		{
			"leaf mixed with composite",
			"version: 1\nconditions:\n  c:\n    os: linux\n    reason: r\n    not:\n      os: darwin",
			"cannot be combined",
		},
		{
			"matches nothing",
			"version: 1\nconditions:\n  c:\n    reason: r",
			"matches nothing",
		},
		{
			"two composites",
			"version: 1\nconditions:\n  c:\n    reason: r\n    all_of:\n      - os: linux\n    any_of:\n      - os: darwin",
			"at most one",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCompile_Composite_Conditions(t *testing.T) {
	t.Parallel()

	src := `
version: 1
conditions:
  mac-or-windows:
    reason: "posix-only fixture"
    any_of:
      - os: darwin
      - os: windows
  not-linux:
    reason: "requires non-linux"
    not:
      os: linux
  old-mac:
    reason: "rosetta path"
    all_of:
      - os: darwin
      - arch: amd64
rules:
  - match: "A*"
    condition: mac-or-windows
  - match: "B*"
    condition: not-linux
  - match: "C*"
    condition: old-mac
`
	s, err := Parse([]byte(src))
	require.NoError(t, err)

	darwinAmd := platform.Descriptor{OS: "darwin", Arch: "amd64"}
	linuxArm := platform.Descriptor{OS: "linux", Arch: "arm64"}

	vsDarwin := s.Evaluate(darwinAmd)
	require.Len(t, vsDarwin, 3)
	assert.True(t, vsDarwin[0].Verdict.Skip, "any_of darwin")
	assert.True(t, vsDarwin[1].Verdict.Skip, "not linux")
	assert.True(t, vsDarwin[2].Verdict.Skip, "all_of darwin+amd64")

	vsLinux := s.Evaluate(linuxArm)
	assert.False(t, vsLinux[0].Verdict.Skip)
	assert.False(t, vsLinux[1].Verdict.Skip)
	assert.False(t, vsLinux[2].Verdict.Skip)
}

func TestSet_Match_First_Rule_Wins(t *testing.T) {
	t.Parallel()

	src := `
version: 1
conditions:
  a:
    os: darwin
    reason: "first"
  b:
    os: darwin
    reason: "second"
rules:
  - match: "TestBoth*"
    condition: a
  - match: "TestBoth*"
    condition: b
`
	s, err := Parse([]byte(src))
	require.NoError(t, err)

	b, ok := s.Match("TestBothWays")
	require.True(t, ok)
	assert.Equal(t, "a", b.Condition.Name)
}

func TestSet_Match_Subtest_Patterns(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(validRules))
	require.NoError(t, err)

	tests := []struct {
		testName string
		want     bool
	}{
		{"TestJITCompile", true},
		{"TestJIT", true},
		{"TestJIT/sub", false}, // * does not cross the subtest separator
		{"TestKernel/throws_segfault", true},
		{"TestKernel/returns_value", false},
		{"TestUnrelated", false},
	}
	for _, tt := range tests {
		_, ok := s.Match(tt.testName)
		assert.Equal(t, tt.want, ok, "match %q", tt.testName)
	}
}

func TestSet_Match_Doublestar_Crosses_Subtests(t *testing.T) {
	t.Parallel()

	src := `
version: 1
rules:
  - match: "TestKernel/**"
    condition: macos-arm64-jit-exceptions
`
	s, err := Parse([]byte(src))
	require.NoError(t, err)

	_, ok := s.Match("TestKernel/throws/deep/case")
	assert.True(t, ok)
	_, ok = s.Match("TestOther/throws")
	assert.False(t, ok)
}

func TestSet_Evaluate_Uses_Rule_Reason_Override(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(validRules))
	require.NoError(t, err)

	vs := s.Evaluate(platform.Descriptor{OS: "linux", Arch: "arm64"})
	require.Len(t, vs, 2)

	assert.False(t, vs[0].Verdict.Skip)
	require.True(t, vs[1].Verdict.Skip)
	assert.Equal(t, "kernel throw tests need AVX-512", vs[1].Verdict.Reason)
}

func TestSet_Local_Condition_Shadows_Builtin(t *testing.T) {
	t.Parallel()

	src := `
version: 1
conditions:
  macos-arm64-jit-exceptions:
    os: darwin
    arch: arm64
    reason: "project-specific wording"
rules:
  - match: "Test*"
    condition: macos-arm64-jit-exceptions
`
	s, err := Parse([]byte(src))
	require.NoError(t, err)

	b, ok := s.Match("TestAnything")
	require.True(t, ok)
	assert.Equal(t, "project-specific wording", b.Reason)
}

func TestLoad_Reads_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "skiprules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRules), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, 2, s.Len())
}

func TestLoad_Missing_File_Fails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading rules file failed")
}

func TestLoad_Invalid_File_Names_Path(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 7"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, path)
}
