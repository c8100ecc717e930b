package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/gateway"
	"github.com/rupeewave/teller/internal/log"
	"github.com/rupeewave/teller/internal/session"
)

// sessionCheckedMsg carries the result of the startup session probe
type sessionCheckedMsg struct {
	sess session.Session
}

// sessionInvalidatedMsg is broadcast when the session dies out of band,
// typically because some call came back 401
type sessionInvalidatedMsg struct{}

// loggedOutMsg settles a voluntary logout
type loggedOutMsg struct{}

const sessionExpiredNotice = "Session expired, login again."

// Model is the root of the terminal: it owns navigation, the current
// session, and every screen. All screens funnel their settled outcomes
// through here so a dead session always lands back on the login view no
// matter which operation discovered it.
type Model struct {
	gw       *gateway.Client
	sessions *session.Controller
	logger   *log.Logger

	view     ViewType
	sess     session.Session
	cursor   int
	checking bool
	// loggingOut distinguishes a voluntary sign-out from an expiry so
	// the login screen shows the right notice
	loggingOut bool

	login   *loginModel
	history *historyModel
	update  *updateModel
	ops     map[ViewType]*operationForm

	width  int
	height int
	styles Styles
}

// NewModel assembles the terminal over an authenticated gateway
func NewModel(gw *gateway.Client, sessions *session.Controller, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	return &Model{
		gw:       gw,
		sessions: sessions,
		logger:   logger,
		view:     ViewLogin,
		checking: true,
		login:    newLoginModel(sessions),
		history:  newHistoryModel(gw),
		update:   newUpdateModel(gw),
		ops: map[ViewType]*operationForm{
			ViewCreateAccount: newCreateAccountForm(gw),
			ViewCreateUser:    newCreateUserForm(gw),
			ViewDeposit:       newTransactionForm(gw, ViewDeposit),
			ViewWithdraw:      newTransactionForm(gw, ViewWithdraw),
			ViewTransfer:      newTransferForm(gw),
			ViewEnquiry:       newEnquiryForm(gw),
			ViewChangePin:     newChangePinForm(gw),
		},
		styles: DefaultStyles(),
	}
}

// Init probes the backend session so a still-valid cookie skips the
// login screen
func (m *Model) Init() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		return sessionCheckedMsg{sess: sessions.Check(context.Background())}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionCheckedMsg:
		m.checking = false
		if msg.sess.Authenticated {
			m.sess = msg.sess
			m.view = ViewOverview
			m.cursor = 0
			return m, nil
		}
		return m, m.forceLogin("")

	case sessionInvalidatedMsg:
		if m.view == ViewLogin {
			return m, nil
		}
		notice := sessionExpiredNotice
		if m.loggingOut {
			notice = "Signed out."
		}
		return m, m.forceLogin(notice)

	case loggedOutMsg:
		m.loggingOut = false
		if m.view == ViewLogin {
			return m, nil
		}
		return m, m.forceLogin("Signed out.")

	case loginResultMsg:
		if !m.login.handleResult(msg) {
			return m, nil
		}
		if msg.err == nil {
			m.sess = msg.sess
			m.view = ViewOverview
			m.cursor = 0
		}
		return m, nil

	case formResultMsg:
		cmd := m.route(msg)
		if errors.IsSessionExpired(msg.err) && m.view != ViewLogin {
			return m, m.forceLogin(sessionExpiredNotice)
		}
		return m, cmd

	case historyResultMsg:
		cmd := m.history.Update(msg)
		if errors.IsSessionExpired(msg.err) && m.view != ViewLogin {
			return m, m.forceLogin(sessionExpiredNotice)
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.route(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view == ViewLogin {
		return m, m.login.Update(msg)
	}

	switch msg.String() {
	case "esc":
		if m.view != ViewOverview {
			m.view = ViewOverview
			return m, nil
		}
		return m, nil

	case "ctrl+l":
		m.loggingOut = true
		sessions := m.sessions
		return m, func() tea.Msg {
			sessions.Logout(context.Background())
			return loggedOutMsg{}
		}
	}

	if m.view == ViewOverview {
		return m.handleMenuKey(msg)
	}
	return m, m.route(msg)
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := menuFor(m.sess.Role)

	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(items) {
			return m, m.openView(items[m.cursor].view)
		}
	default:
		// Number shortcuts address the full catalog, not the filtered
		// menu. A gated target still opens and renders Access Denied.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(allMenuItems) {
				return m, m.openView(allMenuItems[idx].view)
			}
		}
	}
	return m, nil
}

// openView switches screens. Operation forms are reset on entry, the
// way freshly mounted screens start blank; the history screen keeps its
// state so a fetched list survives a detour to the menu.
func (m *Model) openView(v ViewType) tea.Cmd {
	m.view = v
	if !allowed(v, m.sess.Role) {
		m.logger.Warn("access denied", "view", int(v), "role", string(m.sess.Role))
		return nil
	}

	switch v {
	case ViewHistory:
		return m.history.Init()
	case ViewUpdate:
		m.update.mobile.reset()
		m.update.email.reset()
		m.update.active = 0
		return m.update.Init()
	default:
		if f, ok := m.ops[v]; ok {
			f.reset()
			return f.Init()
		}
	}
	return nil
}

// route delivers a message to the screen that owns it
func (m *Model) route(msg tea.Msg) tea.Cmd {
	switch m.view {
	case ViewLogin:
		return m.login.Update(msg)
	case ViewOverview:
		return nil
	case ViewHistory:
		return m.history.Update(msg)
	case ViewUpdate:
		return m.update.Update(msg)
	default:
		if !allowed(m.view, m.sess.Role) {
			return nil
		}
		if f, ok := m.ops[m.view]; ok {
			return f.Update(msg)
		}
	}
	return nil
}

// forceLogin drops all session state and lands on the login screen
func (m *Model) forceLogin(notice string) tea.Cmd {
	m.sess = session.Session{}
	m.view = ViewLogin
	m.cursor = 0
	m.login.reset(notice)
	return m.login.Init()
}
