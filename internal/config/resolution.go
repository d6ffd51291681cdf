package config

import (
	"fmt"
	"os"
	"strconv"
)

// ResolvedConfig holds the final configuration after applying all
// priority rules.
type ResolvedConfig struct {
	Format      string
	Theme       string
	Platform    string
	Rules       []string
	Strict      bool
	Interactive bool
	NoColor     bool
	CI          bool
	Debug       bool

	// Resolution metadata (for debugging)
	ThemeSource   string // "cli", "env", "file", "default"
	NoColorSource string // "cli", "env", "file"
	CISource      string // "cli", "env", "file"
}

// ResolveConfig resolves configuration from all sources. This is the
// single source of truth for precedence: CLI flags beat environment
// variables beat the config file beat defaults.
func ResolveConfig(cliFlags CliFlags) (*ResolvedConfig, error) {
	appCfg := LoadConfig()

	resolved := &ResolvedConfig{
		Format:        appCfg.Format,
		Rules:         appCfg.Rules,
		Strict:        appCfg.Strict,
		NoColor:       appCfg.NoColor,
		CI:            appCfg.CI,
		Debug:         appCfg.Debug,
		NoColorSource: "file",
		CISource:      "file",
	}

	resolved.Theme, resolved.ThemeSource = resolveTheme(cliFlags, appCfg)

	// Format: CLI > file > default
	if cliFlags.Format != "" {
		resolved.Format = cliFlags.Format
	}

	// Platform override and interactive mode are CLI-only.
	resolved.Platform = cliFlags.Platform
	if cliFlags.InteractiveSet {
		resolved.Interactive = cliFlags.Interactive
	}

	// Rules: CLI paths replace file paths entirely.
	if len(cliFlags.Rules) > 0 {
		resolved.Rules = cliFlags.Rules
	}

	// NoColor: CLI > ENV > file
	if cliFlags.NoColorSet {
		resolved.NoColor = cliFlags.NoColor
		resolved.NoColorSource = "cli"
	} else if envNoColor := getEnvBool("SKIPIF_NO_COLOR", "NO_COLOR"); envNoColor != nil {
		resolved.NoColor = *envNoColor
		resolved.NoColorSource = "env"
	}

	// CI: CLI > ENV > file
	if cliFlags.CISet {
		resolved.CI = cliFlags.CI
		resolved.CISource = "cli"
	} else if envCI := getEnvBool("SKIPIF_CI", "CI"); envCI != nil {
		resolved.CI = *envCI
		resolved.CISource = "env"
	}

	// Strict: CLI > file
	if cliFlags.StrictSet {
		resolved.Strict = cliFlags.Strict
	}

	// Debug: CLI > ENV > file
	if cliFlags.DebugSet {
		resolved.Debug = cliFlags.Debug
	} else if os.Getenv("SKIPIF_DEBUG") != "" {
		resolved.Debug = true
	}

	// CI mode implies NoColor; both force the monochrome theme so
	// logs stay clean.
	if resolved.CI {
		resolved.NoColor = true
		resolved.Theme = "mono"
	} else if resolved.NoColor {
		resolved.Theme = "mono"
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return resolved, nil
}

// resolveTheme resolves the theme name with explicit priority order.
// Unknown names fall back to the default rather than erroring, so a
// stale config file cannot break runs.
func resolveTheme(cliFlags CliFlags, appCfg *AppConfig) (string, string) {
	if cliFlags.Theme != "" {
		if knownTheme(cliFlags.Theme) {
			return cliFlags.Theme, "cli"
		}
		return DefaultTheme, "default"
	}

	if envTheme := os.Getenv("SKIPIF_THEME"); envTheme != "" && knownTheme(envTheme) {
		return envTheme, "env"
	}

	if knownTheme(appCfg.Theme) {
		return appCfg.Theme, "file"
	}

	return DefaultTheme, "default"
}

func knownTheme(name string) bool {
	switch name {
	case "default", "orca", "mono":
		return true
	}
	return false
}

// getEnvBool reads a boolean from environment variables, trying
// multiple keys. Returns nil if none are set, or a pointer to the
// boolean value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

// validateResolvedConfig rejects flag values that no code path could
// honor. Unlike file problems, these are user errors and fatal.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	validFormat := map[string]bool{
		"auto":     true,
		"terminal": true,
		"llm":      true,
		"json":     true,
	}
	if !validFormat[cfg.Format] {
		return fmt.Errorf("invalid format value: %s (must be: auto, terminal, llm, json)", cfg.Format)
	}
	return nil
}
