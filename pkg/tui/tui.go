// Package tui is an interactive browser for audit reports. The left
// pane lists packages with their skip counts; the right pane shows
// each skip with the condition that explains it and the reason the
// test gave.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/mapper"
	"github.com/dkoosis/skipif/pkg/render"
	"github.com/dkoosis/skipif/pkg/testjson"
)

// Run opens the browser over a finished audit. It blocks until the
// user quits and returns the exit code a non-interactive audit of the
// same report would have used.
func Run(ctx context.Context, report *audit.Report, theme render.Theme) (int, error) {
	program := tea.NewProgram(newModel(report, theme), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return 1, err
	}
	return final.(model).exitCode(), nil
}

// pkgRow pairs a package result with its classified skips.
type pkgRow struct {
	result testjson.PackageResult
	skips  []audit.SkippedTest
}

type model struct {
	report *audit.Report
	theme  render.Theme
	styles browserStyles

	rows     []pkgRow
	selected int
	viewport viewport.Model
	ready    bool

	width       int // terminal width
	height      int // terminal height
	listWidth   int // width allocated to package list
	detailWidth int // width allocated to detail pane
}

func newModel(report *audit.Report, theme render.Theme) model {
	vp := viewport.New(0, 0)
	vp.SetContent("Select a package to view its skips")
	return model{
		report:   report,
		theme:    theme,
		styles:   compileStyles(theme),
		rows:     buildRows(report),
		viewport: vp,
	}
}

// buildRows groups the report's skips under their packages, keeping
// the report's package order.
func buildRows(report *audit.Report) []pkgRow {
	byPkg := make(map[string][]audit.SkippedTest)
	for _, s := range report.Skips {
		byPkg[s.Package] = append(byPkg[s.Package], s)
	}
	rows := make([]pkgRow, 0, len(report.Packages))
	for _, p := range report.Packages {
		rows = append(rows, pkgRow{result: p, skips: byPkg[p.Name]})
	}
	return rows
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
				m.refreshViewport()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listWidth = m.calculateListWidth()
		m.detailWidth = m.width - m.listWidth - 1 // 1 for gap
		m.viewport.Width = m.detailWidth - 4      // box padding + border
		m.viewport.Height = msg.Height - 10       // title, header, status bar, borders
		m.ready = true
		m.refreshViewport()
		return m, nil
	}

	// Remaining keys (pgup/pgdn, mouse wheel) scroll the detail pane.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) calculateListWidth() int {
	maxWidth := 0
	for _, row := range m.rows {
		// Row line: "▶ ✓ pkg/name 3⊘"
		w := len(mapper.ShortPkgName(row.result.Name)) + 10
		if w > maxWidth {
			maxWidth = w
		}
	}
	maxWidth += 4 // box borders
	if maxWidth < 24 {
		maxWidth = 24
	}
	if maxWidth > m.width/2 {
		maxWidth = m.width / 2
	}
	return maxWidth
}

func (m *model) refreshViewport() {
	m.viewport.SetContent(m.detailContent())
	m.viewport.GotoTop()
}

// detailContent renders the selected package's skips.
func (m *model) detailContent() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return "No packages in this run"
	}
	row := m.rows[m.selected]
	r := row.result

	var b strings.Builder
	fmt.Fprintf(&b, "%d passed  %d failed  %d skipped  %.1fs\n",
		r.Passed, r.Failed, r.Skipped, r.Duration.Seconds())

	if r.BuildError != "" {
		b.WriteString("\n" + m.theme.Error.Render("build failed") + "\n")
		b.WriteString(m.theme.Muted.Render(r.BuildError) + "\n")
	}

	if len(row.skips) == 0 {
		b.WriteString("\n" + m.theme.Muted.Render("No skips in this package"))
		return b.String()
	}

	for _, s := range row.skips {
		icon := m.theme.Warning.Render(m.theme.Icons.Skip)
		tag := m.theme.Muted.Render("[" + s.Condition + "]")
		if !s.Explained {
			icon = m.theme.Error.Render(m.theme.Icons.Skip)
			tag = m.theme.Error.Render("[?]")
		}
		fmt.Fprintf(&b, "\n%s %s %s\n", icon, s.Test, tag)
		if s.Reason != "" {
			b.WriteString(m.theme.Muted.Render("    "+s.Reason) + "\n")
		}
	}
	return b.String()
}

func (m model) View() string {
	if !m.ready {
		return "Loading audit..."
	}

	title := "\n" + m.styles.title.Width(m.width).Render(m.titleText())

	// blank(1) + title(1) + status(2) + box chrome(4) = 8 total
	contentHeight := m.height - 8
	if contentHeight < 5 {
		contentHeight = 5
	}

	listPanel := m.styles.listBox.
		Width(m.listWidth).
		Render(padToHeight(m.renderList(), contentHeight))

	header := m.styles.detailHeader.Render(m.selectedName())
	detailPanel := m.styles.detailBox.
		Width(m.detailWidth).
		Render(padToHeight(header+"\n\n"+m.viewport.View(), contentHeight))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	help := m.styles.statusBar.Render("↑/↓ packages • pgup/pgdn scroll • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}

func (m *model) titleText() string {
	host := "unknown platform"
	if m.report.Host.Known() {
		host = m.report.Host.String()
	}
	t := m.report.Totals
	if t.Unexplained > 0 {
		return fmt.Sprintf("skipif audit  %s  %d skips, %d unexplained", host, t.Skipped, t.Unexplained)
	}
	return fmt.Sprintf("skipif audit  %s  %d skips", host, t.Skipped)
}

func (m *model) selectedName() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return "audit"
	}
	return m.rows[m.selected].result.Name
}

func (m *model) renderList() string {
	if len(m.rows) == 0 {
		return m.theme.Muted.Render("no packages")
	}

	lineWidth := m.listWidth - 6 // box padding
	if lineWidth < 16 {
		lineWidth = 16
	}

	var lines []string
	for i, row := range m.rows {
		name := mapper.ShortPkgName(row.result.Name)
		count := ""
		if n := len(row.skips); n > 0 {
			count = fmt.Sprintf(" %d%s", n, m.theme.Icons.Skip)
		}
		if i == m.selected {
			// Selected: raw icon so the highlight style controls all styling
			content := fmt.Sprintf("▶ %s %s%s", m.rawStatusIcon(row), name, count)
			lines = append(lines, m.styles.selected.Width(lineWidth).Render(content))
		} else {
			lines = append(lines, m.styles.unselected.Render(fmt.Sprintf("  %s %s%s", m.statusIcon(row), name, count)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *model) statusIcon(row pkgRow) string {
	switch row.result.Status() {
	case "fail":
		return m.theme.Error.Render(m.theme.Icons.Fail)
	case "skip":
		return m.theme.Warning.Render(m.theme.Icons.Skip)
	default:
		return m.theme.Success.Render(m.theme.Icons.Run)
	}
}

// rawStatusIcon returns the icon without styling, for selected rows.
func (m *model) rawStatusIcon(row pkgRow) string {
	switch row.result.Status() {
	case "fail":
		return m.theme.Icons.Fail
	case "skip":
		return m.theme.Icons.Skip
	default:
		return m.theme.Icons.Run
	}
}

// padToHeight pads or truncates content to an exact line count so
// both panels render at the same height.
func padToHeight(content string, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m model) exitCode() int {
	if m.report.Failed() {
		return 1
	}
	return 0
}
