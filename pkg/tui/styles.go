package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/skipif/pkg/render"
)

// browserStyles are the compiled lipgloss styles for the browser
// chrome, derived from the active render theme so the interactive
// view matches the static one.
type browserStyles struct {
	title        lipgloss.Style
	listBox      lipgloss.Style
	detailBox    lipgloss.Style
	detailHeader lipgloss.Style
	selected     lipgloss.Style
	unselected   lipgloss.Style
	statusBar    lipgloss.Style
}

func compileStyles(th render.Theme) browserStyles {
	primary := th.Primary.GetForeground()
	muted := th.Muted.GetForeground()

	return browserStyles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(primary).
			Padding(0, 1),

		listBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2),

		detailBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		detailHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(primary).
			Padding(0, 1),

		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(primary).
			Padding(0, 1),

		unselected: lipgloss.NewStyle().
			Padding(0, 1),

		statusBar: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
