package tui

import (
	"strings"

	"go-chi-calculator/internal/operation"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(12).
			Foreground(lipgloss.Color("245"))

	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("12")).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Background(lipgloss.Color("12")).
			Foreground(lipgloss.Color("0"))

	disabledButtonStyle = buttonStyle.
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("250"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Foreground(lipgloss.Color("9")).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Calculator"))
	b.WriteString("\n")

	b.WriteString(m.fieldRow(focusX, "x", m.inputs[focusX].View()))
	b.WriteString(m.fieldRow(focusY, "y", m.inputs[focusY].View()))
	b.WriteString(m.fieldRow(focusOperation, "operation", m.operationView()))
	b.WriteString("\n")

	if m.submit.Disabled() {
		b.WriteString(disabledButtonStyle.Render("Calculate"))
	} else {
		b.WriteString(buttonStyle.Render("Calculate"))
	}

	if visible, _ := m.loading.snapshot(); visible {
		b.WriteString("  " + m.spinner.View() + " Calculating...")
	}
	b.WriteString("\n\n")

	if visible, content := m.result.snapshot(); visible {
		b.WriteString(resultStyle.Render(content))
		b.WriteString("\n")
	}
	if visible, content := m.errPanel.snapshot(); visible {
		b.WriteString(errorStyle.Render(content))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: next field • ←/→: operation • enter: calculate • esc: quit"))

	return b.String()
}

func (m *Model) fieldRow(idx int, label, value string) string {
	style := labelStyle
	if m.focus == idx {
		style = focusedLabelStyle
	}
	return style.Render(label) + value + "\n"
}

func (m *Model) operationView() string {
	name := m.selectedOperation()
	if name == "" {
		return "‹ Select operation ›"
	}
	return "‹ " + name + " (" + operation.Symbol(name) + ") ›"
}
