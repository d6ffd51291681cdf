// Package detect sniffs piped input to determine its format.
package detect

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown    Format = iota
	GoTestJSON        // go test -json NDJSON stream
	RulesYAML         // skip rules document
)

// Sniff examines the first bytes of input to determine format.
// Input must contain at least the first line.
func Sniff(data []byte) Format {
	// Trim leading whitespace
	for len(data) > 0 && (data[0] == ' ' || data[0] == '\t' || data[0] == '\n' || data[0] == '\r') {
		data = data[1:]
	}
	if len(data) == 0 {
		return Unknown
	}

	// go test -json is NDJSON, one object per line
	if data[0] == '{' {
		if isGoTestJSON(data) {
			return GoTestJSON
		}
		return Unknown
	}

	if isRulesYAML(data) {
		return RulesYAML
	}

	return Unknown
}

func isGoTestJSON(data []byte) bool {
	// Find first complete line
	end := 0
	for end < len(data) && data[end] != '\n' {
		end++
	}
	firstLine := data[:end]

	var event struct {
		Action  string `json:"Action"`
		Package string `json:"Package"`
	}
	if err := json.Unmarshal(firstLine, &event); err != nil {
		return false
	}

	validActions := map[string]bool{
		"start": true, "run": true, "pause": true, "cont": true,
		"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
	}
	return validActions[event.Action]
}

// isRulesYAML probes for the rules document shape: a version key plus
// a rules or conditions section. YAML parses JSON too, so this runs
// only after the NDJSON branch has passed.
func isRulesYAML(data []byte) bool {
	var probe struct {
		Version    int                  `yaml:"version"`
		Conditions map[string]yaml.Node `yaml:"conditions"`
		Rules      []yaml.Node          `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Version > 0 && (probe.Rules != nil || probe.Conditions != nil)
}
