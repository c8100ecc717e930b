package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/gateway"
	"github.com/rupeewave/teller/internal/history"
)

// historyResultMsg is the settled outcome of a history fetch
type historyResultMsg struct {
	gen    int
	result history.Result
	err    error
}

// historyModel is the transaction history screen. The query inputs are
// retained after a fetch so the same account can be refreshed with a
// single key.
type historyModel struct {
	gw *gateway.Client

	accNo string
	pin   string

	form    *huh.Form
	gen     int
	loading bool
	spin    spinner.Model
	errMsg  string

	// last successful query, used by refresh
	lastAccNo string
	lastPin   string
	result    *history.Result

	styles Styles
}

func newHistoryModel(gw *gateway.Client) *historyModel {
	h := &historyModel{
		gw:     gw,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles: DefaultStyles(),
	}
	h.rebuild()
	return h
}

func (h *historyModel) rebuild() {
	h.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("acc_no").
			Title("Account Number").
			Placeholder("e.g., AC1001").
			Validate(func(s string) error { return validateRequired("Account number")(s) }).
			Value(&h.accNo),
		huh.NewInput().
			Key("pin").
			Title("4-Digit PIN").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error { return validatePIN(strings.TrimSpace(s)) }).
			Value(&h.pin),
	))
}

func (h *historyModel) Init() tea.Cmd {
	return h.form.Init()
}

func (h *historyModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case historyResultMsg:
		if msg.gen != h.gen {
			return nil
		}
		h.loading = false
		if msg.err != nil {
			h.errMsg = errors.UserMessage(msg.err)
			h.result = nil
		} else {
			h.errMsg = ""
			result := msg.result
			h.result = &result
			if !result.OK {
				h.errMsg = result.Message
				h.result = nil
			}
		}
		h.rebuild()
		return h.form.Init()

	case spinner.TickMsg:
		if !h.loading {
			return nil
		}
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		// Refresh reruns the last fetch without touching the form.
		if msg.String() == "ctrl+r" && h.result != nil && !h.loading {
			return h.fetch(h.lastAccNo, h.lastPin)
		}
	}

	if h.loading {
		return nil
	}

	form, cmd := h.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		h.form = hf
	}

	if h.form.State == huh.StateCompleted {
		return h.fetch(strings.TrimSpace(h.accNo), strings.TrimSpace(h.pin))
	}
	return cmd
}

func (h *historyModel) fetch(accNo, pin string) tea.Cmd {
	h.errMsg = ""
	h.loading = true
	h.gen++
	h.lastAccNo = accNo
	h.lastPin = pin

	gen := h.gen
	gw := h.gw

	call := func() tea.Msg {
		raw, err := gw.History(context.Background(), accNo, pin)
		if err != nil {
			return historyResultMsg{gen: gen, err: err}
		}
		return historyResultMsg{gen: gen, result: history.Parse(raw)}
	}
	return tea.Batch(h.spin.Tick, call)
}

func (h *historyModel) View() string {
	var b strings.Builder

	b.WriteString(h.styles.Title.Render("Transaction History"))
	b.WriteString("\n")
	b.WriteString(h.styles.Subtitle.Render("Recent activity for an account"))
	b.WriteString("\n")

	if h.loading {
		b.WriteString("\n" + h.spin.View() + " Fetching history...\n")
	} else {
		b.WriteString(h.form.View())
	}

	if h.errMsg != "" {
		b.WriteString("\n" + h.styles.Error.Render("✗ "+h.errMsg) + "\n")
	}

	if h.result != nil {
		b.WriteString("\n")
		b.WriteString(h.renderResult())
		b.WriteString("\n" + h.styles.Help.Render("ctrl+r refresh") + "\n")
	}

	return b.String()
}

func (h *historyModel) renderResult() string {
	if h.result.Empty {
		return h.styles.Muted.Render(history.NoRecordsMessage)
	}

	var b strings.Builder
	b.WriteString(h.styles.Status.Render(fmt.Sprintf("Account %s", h.lastAccNo)))
	b.WriteString("\n")
	for _, e := range h.result.Entries {
		amount := e.DisplayAmount()
		if e.AmountKnown {
			if e.Action.IsCredit() {
				amount = h.styles.Credit.Render(amount)
			} else {
				amount = h.styles.Debit.Render(amount)
			}
		}
		b.WriteString(fmt.Sprintf("%-24s %12s  %s\n", e.DisplayLabel(), amount, h.styles.Muted.Render(e.When)))
	}
	return b.String()
}
