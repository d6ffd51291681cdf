package platform

import (
	"runtime"
	"testing"
)

func TestHost_MatchesRuntime(t *testing.T) {
	t.Parallel()

	d := Host()
	if d.OS != runtime.GOOS {
		t.Errorf("expected OS %q, got %q", runtime.GOOS, d.OS)
	}
	if d.Arch != runtime.GOARCH {
		t.Errorf("expected Arch %q, got %q", runtime.GOARCH, d.Arch)
	}
	if !d.Known() {
		t.Error("host descriptor should be known")
	}
}

func TestHost_Idempotent(t *testing.T) {
	t.Parallel()

	if Host() != Host() {
		t.Error("Host must return identical descriptors within one process")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		os, arch string
		want     Descriptor
	}{
		{"darwin", "arm64", Descriptor{Darwin, ARM64}},
		{"macOS", "AArch64", Descriptor{Darwin, ARM64}},
		{"OSX", "arm64e", Descriptor{Darwin, ARM64}},
		{"Darwin", "x86_64", Descriptor{Darwin, AMD64}},
		{"win32", "x64", Descriptor{Windows, AMD64}},
		{"Linux", "i686", Descriptor{Linux, I386}},
		{" linux ", " amd64 ", Descriptor{Linux, AMD64}},
		{"plan9", "riscv64", Descriptor{"plan9", "riscv64"}}, // pass-through
		{"", "", Descriptor{}},
	}
	for _, tt := range tests {
		if got := Normalize(tt.os, tt.arch); got != tt.want {
			t.Errorf("Normalize(%q, %q) = %v, want %v", tt.os, tt.arch, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	d, err := Parse("macos/aarch64")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Descriptor{Darwin, ARM64}) {
		t.Errorf("unexpected descriptor %v", d)
	}

	for _, bad := range []string{"", "darwin", "darwin/", "/arm64", "a/b/c"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestDescriptor_Known(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    Descriptor
		want bool
	}{
		{Descriptor{Darwin, ARM64}, true},
		{Descriptor{"", ARM64}, false},
		{Descriptor{Darwin, ""}, false},
		{Descriptor{}, false},
	}
	for _, tt := range tests {
		if got := tt.d.Known(); got != tt.want {
			t.Errorf("%v.Known() = %t, want %t", tt.d, got, tt.want)
		}
	}
}

func TestDescriptor_String(t *testing.T) {
	t.Parallel()

	if s := (Descriptor{Darwin, ARM64}).String(); s != "darwin/arm64" {
		t.Errorf("unexpected String %q", s)
	}
}
