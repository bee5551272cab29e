package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pluginbuilder/internal/session"
	"pluginbuilder/pkg/types"
)

// styles renders terminal output. Colors are dropped when w is not a TTY.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	faint lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		label: r.NewStyle().Width(24),
		ok:    r.NewStyle().Foreground(lipgloss.Color("46")),
		faint: r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (s styles) projects(ps []types.Project) string {
	if len(ps) == 0 {
		return s.faint.Render("no plugin projects") + "\n"
	}
	rows := []string{s.title.Render(s.label.Render("NAME") + "TYPE")}
	for _, p := range ps {
		rows = append(rows, s.label.Render(p.Name)+p.OpType)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (s styles) templates(ts []types.Template) string {
	rows := []string{s.title.Render(s.label.Render("TEMPLATE") + s.label.Render("TYPE") + "BLOCKS")}
	for _, t := range ts {
		rows = append(rows, s.label.Render(t.Name)+s.label.Render(t.OpType)+t.Blocks)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (s styles) line(l session.Line) string {
	return s.faint.Render(fmt.Sprintf("%5d ", l.Seq)) + strings.TrimRight(l.Text, "\r\n") + "\n"
}

func (s styles) done(format string, a ...any) string {
	return s.ok.Render(fmt.Sprintf(format, a...)) + "\n"
}
