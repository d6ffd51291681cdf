package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	Format      string
	Theme       string
	Platform    string
	Rules       []string
	Strict      bool
	Interactive bool
	NoColor     bool
	CI          bool
	Debug       bool

	// Flags to track if they were explicitly set by the user
	StrictSet      bool
	InteractiveSet bool
	NoColorSet     bool
	CISet          bool
	DebugSet       bool
}

// AppConfig represents the application's configuration from .skipif.yaml.
type AppConfig struct {
	Format  string   `yaml:"format,omitempty"`
	Theme   string   `yaml:"theme,omitempty"`
	Rules   []string `yaml:"rules,omitempty"`
	NoColor bool     `yaml:"no_color"`
	CI      bool     `yaml:"ci"`
	Debug   bool     `yaml:"debug"`
	Strict  bool     `yaml:"strict"`
}

// Constants for default values.
const (
	DefaultFormat = "auto"
	DefaultTheme  = "default"

	configFileName = ".skipif.yaml"
	configDirName  = "skipif"
)

// LoadConfig loads the .skipif.yaml configuration. A missing or
// unreadable file returns defaults; nothing here is fatal.
func LoadConfig() *AppConfig {
	appCfg := &AppConfig{
		Format: DefaultFormat,
		Theme:  DefaultTheme,
	}

	debug := os.Getenv("SKIPIF_DEBUG") != ""

	configPath := getConfigPath()
	if configPath == "" {
		if debug {
			fmt.Fprintln(os.Stderr, "[DEBUG LoadConfig] No .skipif.yaml found, using defaults.")
		}
		return appCfg
	}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file %s: %v. Using defaults.\n", configPath, err)
		}
		return appCfg
	}

	var fileCfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error unmarshalling config file %s: %v. Using defaults.\n", configPath, err)
		return appCfg
	}

	if fileCfg.Format != "" {
		appCfg.Format = fileCfg.Format
	}
	if fileCfg.Theme != "" {
		appCfg.Theme = fileCfg.Theme
	}
	if len(fileCfg.Rules) > 0 {
		appCfg.Rules = fileCfg.Rules
	}
	appCfg.NoColor = fileCfg.NoColor
	appCfg.CI = fileCfg.CI
	appCfg.Debug = fileCfg.Debug
	appCfg.Strict = fileCfg.Strict

	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG LoadConfig] Loaded config from %s.\n", configPath)
	}
	return appCfg
}

// getConfigPath tries to find the .skipif.yaml configuration file.
// It checks the local directory first, then the user config dir.
func getConfigPath() string {
	if _, err := os.Stat(configFileName); err == nil {
		if os.Getenv("SKIPIF_DEBUG") != "" {
			abs, _ := filepath.Abs(configFileName)
			fmt.Fprintf(os.Stderr, "[DEBUG getConfigPath] Using local config file: %s\n", abs)
		}
		return configFileName
	}

	configHome, err := os.UserConfigDir()
	if err == nil && configHome != "" && configHome != "/" {
		path := filepath.Join(configHome, configDirName, configFileName)
		if _, errStat := os.Stat(path); errStat == nil {
			if os.Getenv("SKIPIF_DEBUG") != "" {
				fmt.Fprintf(os.Stderr, "[DEBUG getConfigPath] Using user config file: %s\n", path)
			}
			return path
		}
	}

	return ""
}
