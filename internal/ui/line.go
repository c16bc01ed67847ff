package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flavono123/peek/internal/flatten"
	"github.com/flavono123/peek/internal/present"
	"github.com/flavono123/peek/internal/ui/theme"
)

type Line struct {
	row   flatten.Row
	index int
	// height is 2 when the key is long enough to push the value onto its
	// own line.
	height int
}

func newLine(row flatten.Row, index int, layout present.Layout) *Line {
	return &Line{row: row, index: index, height: layout.EstimatedHeight(row)}
}

type lineStyle struct {
	theme     theme.Theme
	presenter present.Presenter
	mode      present.Mode
	matched   bool
}

func (l *Line) render(leftPadding int, cursored bool, maxWidth int, s lineStyle) string {
	head := lipgloss.JoinHorizontal(
		lipgloss.Left,
		l.number(leftPadding, s),
		l.indent(),
		l.cursor(cursored, s),
		l.action(s),
		l.key(cursored, s),
	)

	rendered := head + l.separator(s) + l.value(s)
	if l.height > 1 {
		pad := strings.Repeat(" ", leftPadding+1+l.row.Depth*NAV_INDENT_WIDTH+4)
		rendered = head + "\n" + pad + l.value(s)
	}

	return lipgloss.NewStyle().MaxWidth(maxWidth).Render(rendered)
}

func (l *Line) number(leftPadding int, s lineStyle) string {
	number := lipgloss.NewStyle().Foreground(s.theme.Overlay0())
	fmtStr := fmt.Sprintf("%%%dd ", leftPadding)
	return number.Render(fmt.Sprintf(fmtStr, l.index+1))
}

func (l *Line) indent() string {
	return strings.Repeat(" ", l.row.Depth*NAV_INDENT_WIDTH)
}

func (l *Line) cursor(cursored bool, s lineStyle) string {
	cursor := lipgloss.NewStyle().Foreground(s.theme.Blue()).Bold(true)
	if cursored {
		return cursor.Render(">")
	}
	return cursor.Render(" ")
}

func (l *Line) action(s lineStyle) string {
	action := lipgloss.NewStyle().Foreground(s.theme.Subtext1())
	switch {
	case !l.row.Expandable:
		return action.Render("  ")
	case l.row.Expanded && !l.row.DepthLimited:
		return action.Render("- ")
	}
	return action.Render("+ ")
}

func (l *Line) key(cursored bool, s lineStyle) string {
	style := lipgloss.NewStyle().Foreground(s.theme.Text())
	if s.matched {
		style = style.Foreground(s.theme.Yellow()).Underline(true)
	}
	if cursored {
		style = style.Bold(true)
	}
	return style.Render(l.row.Key)
}

func (l *Line) separator(s lineStyle) string {
	return lipgloss.NewStyle().Foreground(s.theme.Overlay1()).Render(": ")
}

func (l *Line) value(s lineStyle) string {
	val := lipgloss.NewStyle().
		Foreground(s.presenter.ColorFor(l.row.Tag)).
		Render(s.presenter.FormatRow(l.row, s.mode))

	hint := lipgloss.NewStyle().Foreground(s.theme.Overlay0()).Italic(true)
	switch {
	case l.row.Truncated:
		val += hint.Render(fmt.Sprintf(" (first %d)", l.row.ChildCount))
	case l.row.DepthLimited && l.row.Expandable:
		val += hint.Render(" (depth limit)")
	}
	return val
}
