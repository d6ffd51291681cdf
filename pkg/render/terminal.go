package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.ConditionTable:
		return t.renderConditionTable(v)
	case *pattern.SkipTable:
		return t.renderSkipTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + titleCase(m.Label) + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderConditionTable(ct *pattern.ConditionTable) string {
	if len(ct.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	if ct.Label != "" {
		sb.WriteString(t.theme.Bold.Render(ct.Label))
		sb.WriteString("\n")
	}

	maxName := 0
	for _, r := range ct.Rows {
		if w := runewidth.StringWidth(r.Name); w > maxName {
			maxName = w
		}
	}
	if maxName > 40 {
		maxName = 40
	}

	for _, r := range ct.Rows {
		sb.WriteString("  ")
		icon, style := t.verdictIconStyle(r.Skip)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(truncate(r.Name, maxName), maxName))
		if r.Pattern != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Primary.Render(r.Pattern))
		}
		if r.Reason != "" {
			sb.WriteString("\n    ")
			sb.WriteString(t.theme.Muted.Render(truncate(r.Reason, t.width-4)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderSkipTable(st *pattern.SkipTable) string {
	if len(st.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	if st.Label != "" {
		sb.WriteString(t.theme.Bold.Render(st.Label))
		sb.WriteString("\n")
	}

	maxTest := 0
	for _, r := range st.Rows {
		if w := runewidth.StringWidth(r.Test); w > maxTest {
			maxTest = w
		}
	}
	if maxTest > 50 {
		maxTest = 50
	}

	for _, r := range st.Rows {
		sb.WriteString("  ")
		icon, style := t.skipIconStyle(r.Explained)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(truncate(r.Test, maxTest), maxTest))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(r.Package))
		if r.Condition != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Primary.Render("[" + r.Condition + "]"))
		}
		if r.Reason != "" {
			sb.WriteString("\n    ")
			sb.WriteString(t.theme.Muted.Render(truncate(r.Reason, t.width-4)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Run, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Skip, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

// verdictIconStyle maps a condition verdict: a condition that applies
// means affected tests will be skipped, rendered as a warning.
func (t *Terminal) verdictIconStyle(skip bool) (string, lipgloss.Style) {
	if skip {
		return t.theme.Icons.Skip, t.theme.Warning
	}
	return t.theme.Icons.Run, t.theme.Success
}

// skipIconStyle maps a skipped test: explained skips are expected,
// unexplained ones are flagged as errors.
func (t *Terminal) skipIconStyle(explained bool) (string, lipgloss.Style) {
	if explained {
		return t.theme.Icons.Skip, t.theme.Warning
	}
	return t.theme.Icons.Fail, t.theme.Error
}

// caserWrapper wraps a cases.Caser to allow pointer storage in sync.Pool.
type caserWrapper struct {
	caser cases.Caser
}

// titleCaserPool pools cases.Title instances; cases.Title is not safe
// for concurrent use.
var titleCaserPool = sync.Pool{
	New: func() any {
		return &caserWrapper{caser: cases.Title(language.English)}
	},
}

func titleCase(s string) string {
	w, ok := titleCaserPool.Get().(*caserWrapper)
	if !ok || w == nil {
		return cases.Title(language.English).String(s)
	}
	defer titleCaserPool.Put(w)
	return w.caser.String(s)
}

// padRight pads s to width terminal cells, using display width so East
// Asian Wide characters line up.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
