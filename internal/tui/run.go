package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rupeewave/teller/internal/gateway"
	"github.com/rupeewave/teller/internal/log"
	"github.com/rupeewave/teller/internal/session"
)

// Run starts the terminal and blocks until it exits. The gateway's 401
// hook feeds the session controller, and the controller's subscribers
// feed the program, so an expiry seen on any goroutine ends up as a
// single message in the update loop.
func Run(ctx context.Context, gw *gateway.Client, sessions *session.Controller, logger *log.Logger) error {
	m := NewModel(gw, sessions, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	gw.OnSessionExpired(sessions.Invalidate)
	sessions.Subscribe(func() {
		p.Send(sessionInvalidatedMsg{})
	})

	_, err := p.Run()
	return err
}
