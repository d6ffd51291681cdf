package render

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSON_StableEnvelope(t *testing.T) {
	r := NewJSON()
	out := r.Render(evalPatterns())

	var decoded struct {
		Version  string `json:"version"`
		Patterns []struct {
			Type string `json:"type"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", decoded.Version)
	}
	if len(decoded.Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(decoded.Patterns))
	}
	if decoded.Patterns[0].Type != "summary" {
		t.Errorf("patterns[0].type = %q", decoded.Patterns[0].Type)
	}
	if decoded.Patterns[1].Type != "condition-table" {
		t.Errorf("patterns[1].type = %q", decoded.Patterns[1].Type)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("output should end with newline")
	}
}

func TestJSON_EmptyPatterns(t *testing.T) {
	r := NewJSON()
	out := r.Render(nil)

	if !strings.Contains(out, `"patterns": []`) {
		t.Errorf("expected empty patterns array:\n%s", out)
	}
}
