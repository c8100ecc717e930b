package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/session"
)

// loginResultMsg is the settled outcome of a login attempt
type loginResultMsg struct {
	gen  int
	sess session.Session
	err  error
}

// loginModel is the sign-in screen. A failed attempt surfaces the
// backend's own message verbatim and never triggers the forced-logout
// path, so mistyping a password does not bounce the whole program.
type loginModel struct {
	sessions *session.Controller

	username string
	password string

	form    *huh.Form
	gen     int
	loading bool
	spin    spinner.Model
	errMsg  string
	// notice explains why the user is back at the login screen, such
	// as an expired session
	notice string
	styles Styles
}

func newLoginModel(sessions *session.Controller) *loginModel {
	l := &loginModel{
		sessions: sessions,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   DefaultStyles(),
	}
	l.rebuild()
	return l
}

func (l *loginModel) rebuild() {
	l.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("username").
			Title("User ID").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.NewValidationError(errors.ErrCodeFieldRequired, "User ID is required")
				}
				return nil
			}).
			Value(&l.username),
		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if s == "" {
					return errors.NewValidationError(errors.ErrCodeFieldRequired, "Password is required")
				}
				return nil
			}).
			Value(&l.password),
	))
}

// reset re-arms the screen after a forced logout. The notice survives
// until the next submission.
func (l *loginModel) reset(notice string) {
	l.username = ""
	l.password = ""
	l.loading = false
	l.errMsg = ""
	l.notice = notice
	l.rebuild()
}

func (l *loginModel) Init() tea.Cmd {
	return l.form.Init()
}

func (l *loginModel) Update(msg tea.Msg) tea.Cmd {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !l.loading {
			return nil
		}
		var cmd tea.Cmd
		l.spin, cmd = l.spin.Update(tick)
		return cmd
	}

	if l.loading {
		return nil
	}

	form, cmd := l.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		l.form = hf
	}

	if l.form.State == huh.StateCompleted {
		return l.startSubmit()
	}
	return cmd
}

func (l *loginModel) startSubmit() tea.Cmd {
	l.errMsg = ""
	l.notice = ""
	l.loading = true
	l.gen++

	gen := l.gen
	sessions := l.sessions
	username := strings.TrimSpace(l.username)
	password := l.password

	call := func() tea.Msg {
		sess, err := sessions.Login(context.Background(), username, password)
		return loginResultMsg{gen: gen, sess: sess, err: err}
	}
	return tea.Batch(l.spin.Tick, call)
}

// handleResult settles an attempt. It reports false for a stale
// response so the caller leaves navigation alone.
func (l *loginModel) handleResult(msg loginResultMsg) bool {
	if msg.gen != l.gen {
		return false
	}
	l.loading = false
	if msg.err != nil {
		l.errMsg = errors.UserMessage(msg.err)
		l.password = ""
		l.rebuild()
		return true
	}
	l.errMsg = ""
	return true
}

func (l *loginModel) View() string {
	var b strings.Builder

	b.WriteString(l.styles.Title.Render("ATM Login"))
	b.WriteString("\n")
	b.WriteString(l.styles.Subtitle.Render("Enter your User ID and Password to access ATM services"))
	b.WriteString("\n")

	if l.notice != "" {
		b.WriteString("\n" + l.styles.Muted.Render(l.notice) + "\n")
	}

	if l.loading {
		b.WriteString("\n" + l.spin.View() + " Signing in...\n")
	} else {
		b.WriteString(l.form.View())
	}

	if l.errMsg != "" {
		b.WriteString("\n" + l.styles.Error.Render("✗ "+l.errMsg) + "\n")
	}

	return b.String()
}
