package render

import (
	"strings"

	"github.com/dkoosis/skipif/pkg/pattern"
)

// LLM renders patterns as terse plain text for machine consumption.
// Zero ANSI codes, deterministic order, SCOPE line first.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns as terse plain text.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			l.renderSummary(&sb, v)
		case *pattern.ConditionTable:
			l.renderConditionTable(&sb, v)
		case *pattern.SkipTable:
			l.renderSkipTable(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	sb.WriteString("SCOPE: " + s.Label + "\n")
	for _, m := range s.Metrics {
		sb.WriteString("  " + m.Label + ": " + m.Value + "\n")
	}
}

func (l *LLM) renderConditionTable(sb *strings.Builder, ct *pattern.ConditionTable) {
	if len(ct.Rows) == 0 {
		return
	}
	sb.WriteString("\n" + ct.Label + "\n")
	for _, r := range ct.Rows {
		verdict := "RUN "
		if r.Skip {
			verdict = "SKIP"
		}
		sb.WriteString("  " + verdict + " " + r.Name)
		if r.Pattern != "" {
			sb.WriteString(" " + r.Pattern)
		}
		sb.WriteString("\n")
		if r.Reason != "" {
			sb.WriteString("    " + r.Reason + "\n")
		}
	}
}

func (l *LLM) renderSkipTable(sb *strings.Builder, st *pattern.SkipTable) {
	if len(st.Rows) == 0 {
		return
	}
	sb.WriteString("\n" + st.Label + "\n")
	for _, r := range st.Rows {
		// "SKIP?" marks a skip no condition accounts for.
		marker := "  SKIP "
		if !r.Explained {
			marker = "  SKIP? "
		}
		sb.WriteString(marker + r.Test)
		if r.Condition != "" {
			sb.WriteString(" [" + r.Condition + "]")
		}
		sb.WriteString(" " + r.Package + "\n")
		if r.Reason != "" {
			sb.WriteString("    " + r.Reason + "\n")
		}
	}
}
