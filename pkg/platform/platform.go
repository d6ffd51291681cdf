// Package platform identifies the operating system and CPU architecture
// a process is running on, in GOOS/GOARCH vocabulary.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Operating system identifiers, matching runtime.GOOS values.
const (
	Darwin  = "darwin"
	Linux   = "linux"
	Windows = "windows"
	FreeBSD = "freebsd"
)

// Architecture identifiers, matching runtime.GOARCH values.
const (
	AMD64 = "amd64"
	ARM64 = "arm64"
	ARM   = "arm"
	I386  = "386"
)

// Descriptor is an immutable (operating system, architecture) pair.
// Both fields hold lowercase GOOS/GOARCH identifiers, or "" when the
// value is unknown.
type Descriptor struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// Host returns the descriptor of the running process. It reads
// runtime.GOOS and runtime.GOARCH on every call rather than caching at
// package init, so there is no hidden initialization order to reason
// about. The result is stable for the life of the process.
func Host() Descriptor {
	return Descriptor{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// osAliases maps identifiers other toolchains use onto GOOS values.
var osAliases = map[string]string{
	"macos": Darwin,
	"mac":   Darwin,
	"osx":   Darwin,
	"win":   Windows,
	"win32": Windows,
	"win64": Windows,
}

// archAliases maps identifiers other toolchains use onto GOARCH values.
var archAliases = map[string]string{
	"x86_64":  AMD64,
	"x86-64":  AMD64,
	"x64":     AMD64,
	"aarch64": ARM64,
	"arm64e":  ARM64,
	"i386":    I386,
	"i686":    I386,
	"x86":     I386,
}

// Normalize lowercases the given identifiers and maps common aliases
// (macos, x86_64, aarch64, ...) onto GOOS/GOARCH vocabulary. Unknown
// identifiers pass through lowercased: comparisons against them simply
// never match, which keeps the downstream skip decision fail-open.
func Normalize(os, arch string) Descriptor {
	os = strings.ToLower(strings.TrimSpace(os))
	arch = strings.ToLower(strings.TrimSpace(arch))
	if mapped, ok := osAliases[os]; ok {
		os = mapped
	}
	if mapped, ok := archAliases[arch]; ok {
		arch = mapped
	}
	return Descriptor{OS: os, Arch: arch}
}

// Parse parses an "os/arch" string (the CLI flag form, e.g.
// "darwin/arm64") into a normalized descriptor. It errors only on a
// malformed shape, not on unrecognized names.
func Parse(s string) (Descriptor, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Descriptor{}, fmt.Errorf("invalid platform %q (expected os/arch, e.g. darwin/arm64)", s)
	}
	return Normalize(parts[0], parts[1]), nil
}

// Known reports whether both identifiers are present. A descriptor
// with either field empty means platform introspection failed; callers
// must treat that as "do not skip".
func (d Descriptor) Known() bool {
	return d.OS != "" && d.Arch != ""
}

// String returns the "os/arch" form.
func (d Descriptor) String() string {
	return d.OS + "/" + d.Arch
}
