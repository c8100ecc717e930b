package tui

import "github.com/rupeewave/teller/internal/session"

// ViewType identifies a screen of the terminal
type ViewType int

const (
	ViewLogin ViewType = iota
	ViewOverview
	ViewCreateAccount
	ViewCreateUser
	ViewDeposit
	ViewWithdraw
	ViewTransfer
	ViewUpdate
	ViewEnquiry
	ViewChangePin
	ViewHistory
)

// menuItem is one entry of the overview menu
type menuItem struct {
	view  ViewType
	label string
	hint  string
}

var allMenuItems = []menuItem{
	{ViewCreateUser, "Create User", "Create new system user"},
	{ViewCreateAccount, "Create Account", "Register new account holder"},
	{ViewDeposit, "Deposit Money", "Add funds to account"},
	{ViewWithdraw, "Withdraw Money", "Withdraw funds from account"},
	{ViewTransfer, "Transfer Money", "Transfer between accounts"},
	{ViewUpdate, "Update Info", "Update mobile or email"},
	{ViewEnquiry, "Balance Enquiry", "Check account balance"},
	{ViewChangePin, "Change PIN", "Update account PIN"},
	{ViewHistory, "Transaction History", "View transaction history"},
}

// menuFor returns the overview entries visible to a role. Hiding an
// entry is cosmetic; allowed is the actual gate.
func menuFor(role session.Role) []menuItem {
	items := make([]menuItem, 0, len(allMenuItems))
	for _, item := range allMenuItems {
		if allowed(item.view, role) {
			items = append(items, item)
		}
	}
	return items
}

// allowed reports whether a role may open a view. User creation is
// admin only, and customers cannot open new accounts.
func allowed(view ViewType, role session.Role) bool {
	switch view {
	case ViewCreateUser:
		return role == session.RoleAdmin
	case ViewCreateAccount:
		return role != session.RoleCustomer
	default:
		return true
	}
}
