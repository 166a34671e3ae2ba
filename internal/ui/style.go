package ui

import "github.com/charmbracelet/lipgloss"

var TableGray = lipgloss.Color("240")

var Title = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("252")).Render
var Help = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("241")).Render

var gradeStyles = map[string]lipgloss.Style{
	"A": lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("78")),
	"B": lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("114")),
	"C": lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("179")),
	"D": lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("167")),
}

func GradeText(grade string) string {
	if style, ok := gradeStyles[grade]; ok {
		return style.Render(grade)
	}
	return grade
}

var tableBase = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(TableGray)

func TableBase(view string) string {
	return tableBase.Render(view)
}
