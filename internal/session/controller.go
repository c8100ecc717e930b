// Package session is the single source of truth for who is logged in.
// The credential itself is a server-managed cookie; this package holds
// only the in-memory view of it.
package session

import (
	"context"
	"sync"

	"github.com/rupeewave/teller/internal/gateway"
	"github.com/rupeewave/teller/internal/log"
)

// Role gates which operations are reachable
type Role string

// Known roles
const (
	RoleAdmin    Role = "admin"
	RoleTeller   Role = "teller"
	RoleCustomer Role = "customer"
)

// Session is the authenticated identity derived from the backend.
// Role and DisplayName are non-empty iff Authenticated is true.
type Session struct {
	Authenticated bool
	Role          Role
	DisplayName   string
}

// authAPI is the slice of the gateway the controller needs. Tests
// substitute a fake.
type authAPI interface {
	CheckSession(ctx context.Context) (*gateway.AuthStatus, error)
	Login(ctx context.Context, username, password string) (*gateway.AuthStatus, error)
	Logout(ctx context.Context) error
}

// Controller owns the Session value. It is the only writer; every other
// component reads through Current.
type Controller struct {
	api    authAPI
	logger *log.Logger

	mu          sync.RWMutex
	session     Session
	subscribers []func()
}

// NewController creates a session controller over the given gateway
func NewController(api authAPI, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Controller{api: api, logger: logger}
}

// Subscribe registers a callback fired whenever the session becomes
// invalid, by logout or by a 401 classification. Decouples transport
// detection from UI recovery.
func (c *Controller) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Current returns a copy of the session value
func (c *Controller) Current() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Check probes the backend session once. Any failure, network included,
// leaves the session unauthenticated: the client fails closed. Calling
// it twice against an unchanged backend session yields the same value.
func (c *Controller) Check(ctx context.Context) Session {
	status, err := c.api.CheckSession(ctx)
	if err != nil || status == nil {
		c.logger.Debug("session check failed, treating as unauthenticated")
		c.set(Session{})
		return c.Current()
	}

	c.set(authenticated(status))
	return c.Current()
}

// Login submits credentials. On success only the in-memory fields
// change; persistence is the server's session cookie. On failure the
// session stays unauthenticated and the error carries the backend's
// detail verbatim.
func (c *Controller) Login(ctx context.Context, username, password string) (Session, error) {
	status, err := c.api.Login(ctx, username, password)
	if err != nil {
		c.set(Session{})
		return c.Current(), err
	}

	c.set(authenticated(status))
	c.logger.Info("login", "role", status.Role)
	return c.Current(), nil
}

// Logout clears the session locally and notifies subscribers before the
// best-effort server call, so a dead network can never trap the user in
// an authenticated-looking state.
func (c *Controller) Logout(ctx context.Context) {
	c.Invalidate()

	if err := c.api.Logout(ctx); err != nil {
		c.logger.WithError(err).Debug("logout call failed, ignored")
	}
}

// Invalidate clears the session and fires subscribers. The gateway's
// 401 handler is wired here.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	wasAuthenticated := c.session.Authenticated
	c.session = Session{}
	subs := make([]func(), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	if wasAuthenticated {
		c.logger.Info("session invalidated")
	}
	for _, fn := range subs {
		fn()
	}
}

func (c *Controller) set(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// authenticated maps a backend auth payload onto a Session. Blank
// fields get display defaults; the role default matches the backend's.
func authenticated(status *gateway.AuthStatus) Session {
	s := Session{
		Authenticated: true,
		Role:          Role(status.Role),
		DisplayName:   status.UserName,
	}
	if s.Role == "" {
		s.Role = RoleTeller
	}
	if s.DisplayName == "" {
		s.DisplayName = "User"
	}
	return s
}
