package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rupeewave/teller/internal/gateway"
)

// updateModel hosts the mobile and email update forms on one screen.
// Each form keeps its own message slots, so settling one never clears
// or overwrites the outcome of the other.
type updateModel struct {
	mobile *operationForm
	email  *operationForm
	active int
	styles Styles
}

func newUpdateModel(gw *gateway.Client) *updateModel {
	return &updateModel{
		mobile: newUpdateMobileForm(gw),
		email:  newUpdateEmailForm(gw),
		styles: DefaultStyles(),
	}
}

func (u *updateModel) forms() []*operationForm {
	return []*operationForm{u.mobile, u.email}
}

func (u *updateModel) activeForm() *operationForm {
	if u.active == 1 {
		return u.email
	}
	return u.mobile
}

func (u *updateModel) Init() tea.Cmd {
	return u.activeForm().Init()
}

func (u *updateModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formResultMsg, spinner.TickMsg:
		// Settlements and ticks are addressed by form, not by focus.
		var cmds []tea.Cmd
		for _, f := range u.forms() {
			if cmd := f.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "tab" && !u.activeForm().loading {
			u.active = 1 - u.active
			u.activeForm().rebuild()
			return u.activeForm().Init()
		}
	}

	return u.activeForm().Update(msg)
}

func (u *updateModel) View() string {
	var b strings.Builder

	b.WriteString(u.styles.Title.Render("Update Account Information"))
	b.WriteString("\n")

	tabs := []string{"Mobile Number", "Email Address"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if i == u.active {
			rendered[i] = u.styles.Highlighted.Render(t)
		} else {
			rendered[i] = u.styles.Muted.Render(t)
		}
	}
	b.WriteString(strings.Join(rendered, "  "))
	b.WriteString("\n\n")

	b.WriteString(u.activeForm().View())
	b.WriteString("\n" + u.styles.Help.Render("tab switch form") + "\n")

	return b.String()
}
