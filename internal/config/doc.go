// Package config handles configuration loading and merging for skipif.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (-format, -theme, -rules, -strict, -no-color, -ci)
//  2. Environment variables (SKIPIF_NO_COLOR, NO_COLOR, SKIPIF_CI, CI, SKIPIF_THEME)
//  3. YAML config file (.skipif.yaml in the local directory or ~/.config/skipif/.skipif.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
// Configuration problems are never fatal: a broken file degrades to defaults
// with a warning on stderr.
//
// # CI Mode Behavior
//
// When CI mode is enabled (via -ci flag, CI=true env var, or ci: true in YAML):
//   - Colors are disabled and the monochrome theme is forced
//   - Output is optimized for log file readability
//
// # Environment Variables
//
// The following environment variables are recognized:
//
//   - SKIPIF_NO_COLOR or NO_COLOR: Set to "true" or "1" to disable colors
//   - SKIPIF_CI or CI: Set to "true" or "1" to enable CI mode
//   - SKIPIF_THEME: Selects a theme by name (default, orca, mono)
//   - SKIPIF_DEBUG: Set to any non-empty value to enable debug output
//
// SKIPIF_DISABLE and SKIPIF_RUN, the overrides for the testing
// integration, are read by pkg/skip and are deliberately not part of
// this package.
package config
