package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sdujack2012/remic/internal/todo"
)

const logo = "remic"

// renderMain renders the full UI: header, list, form and footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.theme.Styles().Input.Render(m.input.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	total, finished := len(m.items), 0
	for _, it := range m.items {
		if it.IsFinished {
			finished++
		}
	}

	parts := []string{
		styles.Logo.Render(logo),
		styles.Text.Render(fmt.Sprintf("%d/%d done", finished, total)),
		m.renderBadge(),
	}
	if m.hideFinished {
		parts = append(parts, styles.MutedText.Render("(finished hidden)"))
	}
	return styles.Header.Render(strings.Join(parts, "  "))
}

func (m Model) renderBadge() string {
	styles := m.theme.Styles()
	switch {
	case m.loading:
		return styles.StatusStyle("loading").Render(m.spinner.View() + " loading")
	case m.lastError != "":
		label := "offline"
		if m.failures > 1 {
			label = fmt.Sprintf("offline ×%d", m.failures)
		}
		return styles.StatusStyle("error").Render(label)
	default:
		return styles.StatusStyle("open").Render("synced")
	}
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	visible := m.visible()
	if len(visible) == 0 {
		if m.loading {
			return styles.MutedText.Render("  Fetching to-dos…")
		}
		return styles.MutedText.Render("  Nothing to do. Press a to add one.")
	}

	lines := make([]string, 0, len(visible))
	for i, it := range visible {
		lines = append(lines, m.renderRow(it, i == m.selected))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(it todo.Item, selected bool) string {
	styles := m.theme.Styles()

	text := it.Description
	if m.width > 0 {
		text = truncate(text, m.width-8)
	}

	check := "[ ]"
	desc := styles.Text.Render(text)
	if it.IsFinished {
		check = styles.SuccessText.Render("[x]")
		desc = styles.FaintText.Render(text)
	}
	row := fmt.Sprintf(" %s %s", check, desc)

	if selected {
		width := max(m.width-2, lipgloss.Width(row))
		return styles.AccentText.Render("›") + styles.Selected.Width(width).Render(row)
	}
	return " " + row
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	var b strings.Builder
	if m.status != "" {
		b.WriteString(styles.DangerText.Render(m.status))
		b.WriteString("\n")
	} else if m.lastError != "" {
		b.WriteString(styles.WarningText.Render("last refresh failed: " + m.lastError))
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString(styles.Footer.Render(m.help.View(m.form)))
	} else {
		b.WriteString(styles.Footer.Render(m.help.View(m.keys)))
	}
	return b.String()
}
