// Package history renders transaction history safely even when the
// backend returns malformed or partially-typed records. Records travel
// as positional tuples [id, accountRef, action, amount, timestamp];
// this package turns them into fully-typed-or-defaulted entries at the
// boundary and never raises on bad data.
package history

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Action is the classified transaction kind
type Action int

// Classified actions. Ordering of classification matters: "transfer"
// can co-occur with "received", so received is checked first.
const (
	ActionOther Action = iota
	ActionDeposit
	ActionWithdraw
	ActionTransferIn
	ActionTransferOut
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionDeposit:
		return "deposit"
	case ActionWithdraw:
		return "withdraw"
	case ActionTransferIn:
		return "transfer_in"
	case ActionTransferOut:
		return "transfer_out"
	default:
		return "other"
	}
}

// IsCredit reports whether the action adds funds from the account
// holder's point of view.
func (a Action) IsCredit() bool {
	return a == ActionDeposit || a == ActionTransferIn
}

// Classify maps a raw action value onto an Action by case-insensitive
// substring match in fixed priority order. Anything that is not a
// string is "other".
func Classify(raw any) Action {
	s, ok := raw.(string)
	if !ok {
		return ActionOther
	}
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "deposit"):
		return ActionDeposit
	case strings.Contains(s, "withdraw"):
		return ActionWithdraw
	case strings.Contains(s, "received"):
		return ActionTransferIn
	case strings.Contains(s, "transfer"):
		return ActionTransferOut
	default:
		return ActionOther
	}
}

// Entry is one normalized history record. Every field is safe to
// render regardless of what the backend sent.
type Entry struct {
	ID         int64
	AccountRef string
	Action     Action
	// Label is the backend's raw action text, kept for display
	Label string
	// Amount is the numeric magnitude; AmountKnown is false when the
	// wire value was not a number
	Amount      float64
	AmountKnown bool
	// When is the display-ready timestamp, falling back to the raw
	// string when parsing fails
	When string
}

// DisplayAmount renders the amount with its credit/debit prefix and
// rupee sign. Malformed amounts degrade to ₹0.
func (e Entry) DisplayAmount() string {
	if !e.AmountKnown {
		return "₹0"
	}
	prefix := "-"
	if e.Action.IsCredit() {
		prefix = "+"
	}
	return prefix + "₹" + formatIndian(math.Abs(e.Amount))
}

// DisplayLabel returns the action text for rendering
func (e Entry) DisplayLabel() string {
	if e.Label == "" {
		return "Unknown"
	}
	return e.Label
}

// Timestamp layouts the backend is known to emit
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// FormatTimestamp parses a space-separated date-time string into a
// human-readable form. Non-strings become "Invalid Date"; unparseable
// strings pass through unchanged, never a crash or blank cell.
func FormatTimestamp(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return "Invalid Date"
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format("2 Jan 2006, 3:04 pm")
		}
	}
	return s
}

// NormalizeEntry converts one raw tuple into an Entry. Any field of the
// wrong type, and any value that is not a tuple at all, degrades to the
// field's default rather than aborting.
func NormalizeEntry(raw any) Entry {
	var e Entry

	tuple, ok := raw.([]any)
	if !ok {
		e.When = "Invalid Date"
		return e
	}

	field := func(i int) any {
		if i < len(tuple) {
			return tuple[i]
		}
		return nil
	}

	if id, ok := field(0).(float64); ok {
		e.ID = int64(id)
	}
	if ref, ok := field(1).(string); ok {
		e.AccountRef = ref
	}
	if label, ok := field(2).(string); ok {
		e.Label = label
	}
	e.Action = Classify(field(2))
	if amount, ok := field(3).(float64); ok {
		e.Amount = amount
		e.AmountKnown = true
	}
	e.When = FormatTimestamp(field(4))

	return e
}

// Result is the classified outcome of a history query
type Result struct {
	// OK is true when the payload had an array-valued history field
	OK bool
	// Empty marks a well-formed but empty history: "no records found",
	// distinct from an error
	Empty bool
	// Entries are the normalized records, in backend order
	Entries []Entry
	// Message is the error text when OK is false
	Message string
}

// fallbackMessage is shown when an error payload carries neither a
// message nor a detail field.
const fallbackMessage = "Failed to fetch transaction history."

// NoRecordsMessage is shown for an empty but well-formed history.
const NoRecordsMessage = "No transaction history found for this account."

// Parse classifies a raw history payload. Success means an array-valued
// "history" field; anything else is an error whose message is the
// payload's message, else its detail, else a generic fallback.
func Parse(raw json.RawMessage) Result {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{Message: fallbackMessage}
	}

	rows, ok := payload["history"].([]any)
	if !ok {
		return Result{Message: errorMessage(payload)}
	}

	if len(rows) == 0 {
		return Result{OK: true, Empty: true}
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, NormalizeEntry(row))
	}
	return Result{OK: true, Entries: entries}
}

func errorMessage(payload map[string]any) string {
	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	if detail, ok := payload["detail"].(string); ok && detail != "" {
		return detail
	}
	return fallbackMessage
}

// formatIndian groups digits the en-IN way: the last three, then pairs.
func formatIndian(v float64) string {
	whole := int64(v)
	frac := v - float64(whole)

	s := fmt.Sprintf("%d", whole)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(append(groups, tail), ",")
	}

	if frac > 1e-9 {
		s += strings.TrimPrefix(fmt.Sprintf("%.2f", frac), "0")
	}
	return s
}
