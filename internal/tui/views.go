package tui

import (
	"fmt"
	"strings"
)

// View renders the header, the active screen, and the help line
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.checking:
		b.WriteString(m.styles.Muted.Render("Checking session..."))
		b.WriteString("\n")
	case m.view == ViewLogin:
		b.WriteString(m.login.View())
	case m.view == ViewOverview:
		b.WriteString(m.overviewView())
	case !allowed(m.view, m.sess.Role):
		b.WriteString(m.accessDeniedView())
	case m.view == ViewHistory:
		b.WriteString(m.history.View())
	case m.view == ViewUpdate:
		b.WriteString(m.update.View())
	default:
		if f, ok := m.ops[m.view]; ok {
			b.WriteString(f.View())
		}
	}

	b.WriteString(m.helpView())
	return b.String()
}

func (m *Model) header() string {
	title := m.styles.Header.Render("ATM Management System")

	status := "Not Authenticated"
	if m.sess.Authenticated {
		status = fmt.Sprintf("Authenticated (%s) - %s", m.sess.Role, m.sess.DisplayName)
	}
	return title + "  " + m.styles.Status.Render(status)
}

func (m *Model) overviewView() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Operations"))
	b.WriteString("\n")

	items := menuFor(m.sess.Role)
	for i, item := range items {
		label := item.label
		if i == m.cursor {
			b.WriteString(m.styles.Highlighted.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("  " + m.styles.Muted.Render(item.hint))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) accessDeniedView() string {
	var b strings.Builder
	b.WriteString(m.styles.Error.Render("Access Denied"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("You do not have permission to access this operation."))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) helpView() string {
	switch m.view {
	case ViewLogin:
		return m.styles.Help.Render("enter submit • ctrl+c quit")
	case ViewOverview:
		return m.styles.Help.Render("↑/↓ move • enter open • 1-9 jump • ctrl+l logout • ctrl+c quit")
	default:
		return m.styles.Help.Render("esc back • ctrl+l logout • ctrl+c quit")
	}
}
