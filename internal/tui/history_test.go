package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rupeewave/teller/internal/history"
)

func TestHistorySettleAndRefreshState(t *testing.T) {
	h := newHistoryModel(testGateway())

	cmd := h.fetch("AC1001", "1234")
	if cmd == nil {
		t.Fatal("fetch returned no command")
	}
	if !h.loading {
		t.Fatal("loading not set during fetch")
	}

	h.Update(historyResultMsg{gen: h.gen, result: history.Result{
		OK: true,
		Entries: []history.Entry{
			{Action: history.ActionDeposit, Label: "Deposit", Amount: 500, AmountKnown: true, When: "1 Aug 2025, 2:30 pm"},
		},
	}})

	if h.loading {
		t.Error("loading still set after settle")
	}
	if h.result == nil || len(h.result.Entries) != 1 {
		t.Fatal("fetched entries not retained")
	}
	if h.lastAccNo != "AC1001" || h.lastPin != "1234" {
		t.Error("refresh query not recorded")
	}

	view := h.View()
	if !strings.Contains(view, "+₹500") {
		t.Errorf("rendered list missing credit amount:\n%s", view)
	}
	if !strings.Contains(view, "ctrl+r refresh") {
		t.Error("refresh hint missing once results are shown")
	}

	// Refresh reruns the recorded query without touching the form.
	cmd = h.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil || !h.loading {
		t.Error("refresh key did not start a new fetch")
	}
}

func TestHistoryStaleResponseDropped(t *testing.T) {
	h := newHistoryModel(testGateway())
	h.fetch("AC1001", "1234")

	h.Update(historyResultMsg{gen: h.gen - 1, result: history.Result{OK: true}})
	if !h.loading {
		t.Error("stale history response cleared loading")
	}
}

func TestHistoryErrorPayloadBecomesMessage(t *testing.T) {
	h := newHistoryModel(testGateway())
	h.fetch("AC1001", "1234")

	h.Update(historyResultMsg{gen: h.gen, result: history.Result{OK: false, Message: "Invalid PIN"}})
	if h.result != nil {
		t.Error("failed fetch left a result behind")
	}
	if h.errMsg != "Invalid PIN" {
		t.Errorf("errMsg = %q, want Invalid PIN", h.errMsg)
	}
}

func TestHistoryEmptyRendersNoRecords(t *testing.T) {
	h := newHistoryModel(testGateway())
	h.fetch("AC1001", "1234")
	h.Update(historyResultMsg{gen: h.gen, result: history.Result{OK: true, Empty: true}})

	if !strings.Contains(h.View(), history.NoRecordsMessage) {
		t.Error("empty history did not render the no-records message")
	}
}
