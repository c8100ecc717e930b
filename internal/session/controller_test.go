package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/gateway"
)

// fakeAPI scripts gateway outcomes for the controller
type fakeAPI struct {
	checkStatus *gateway.AuthStatus
	checkErr    error
	loginStatus *gateway.AuthStatus
	loginErr    error
	logoutErr   error

	checkCalls  int
	logoutCalls int
}

func (f *fakeAPI) CheckSession(ctx context.Context) (*gateway.AuthStatus, error) {
	f.checkCalls++
	return f.checkStatus, f.checkErr
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*gateway.AuthStatus, error) {
	return f.loginStatus, f.loginErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func TestCheckPopulatesSession(t *testing.T) {
	api := &fakeAPI{checkStatus: &gateway.AuthStatus{Role: "admin", UserName: "Root"}}
	c := NewController(api, nil)

	s := c.Check(context.Background())
	assert.True(t, s.Authenticated)
	assert.Equal(t, RoleAdmin, s.Role)
	assert.Equal(t, "Root", s.DisplayName)
}

func TestCheckFailsClosed(t *testing.T) {
	api := &fakeAPI{checkErr: errors.NewAPIError("Session check failed", "Not authenticated")}
	c := NewController(api, nil)

	s := c.Check(context.Background())
	assert.False(t, s.Authenticated)
	assert.Empty(t, s.Role)
	assert.Empty(t, s.DisplayName)
}

func TestCheckNetworkFailureFailsClosed(t *testing.T) {
	api := &fakeAPI{checkErr: errors.NewTransportError("Session check failed", fmt.Errorf("dial tcp"))}
	c := NewController(api, nil)

	s := c.Check(context.Background())
	assert.False(t, s.Authenticated)
}

func TestCheckIdempotent(t *testing.T) {
	api := &fakeAPI{checkStatus: &gateway.AuthStatus{Role: "teller", UserName: "Asha"}}
	c := NewController(api, nil)

	first := c.Check(context.Background())
	second := c.Check(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 2, api.checkCalls)
}

func TestLoginSuccess(t *testing.T) {
	api := &fakeAPI{loginStatus: &gateway.AuthStatus{Role: "customer", UserName: "Ravi"}}
	c := NewController(api, nil)

	s, err := c.Login(context.Background(), "ravi", "secret")
	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.Equal(t, RoleCustomer, s.Role)
}

func TestLoginFailureKeepsUnauthenticated(t *testing.T) {
	api := &fakeAPI{loginErr: errors.NewAPIError("Login failed", "Incorrect username or password")}
	c := NewController(api, nil)

	_, err := c.Login(context.Background(), "ravi", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", errors.UserMessage(err))
	assert.False(t, c.Current().Authenticated)
}

func TestLoginDefaultsBlankFields(t *testing.T) {
	api := &fakeAPI{loginStatus: &gateway.AuthStatus{}}
	c := NewController(api, nil)

	s, err := c.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, RoleTeller, s.Role)
	assert.Equal(t, "User", s.DisplayName)
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	api := &fakeAPI{
		loginStatus: &gateway.AuthStatus{Role: "teller", UserName: "Asha"},
		logoutErr:   fmt.Errorf("connection refused"),
	}
	c := NewController(api, nil)

	_, err := c.Login(context.Background(), "asha", "secret")
	require.NoError(t, err)

	notified := false
	c.Subscribe(func() { notified = true })

	c.Logout(context.Background())

	assert.False(t, c.Current().Authenticated)
	assert.True(t, notified, "subscribers fire even when the server call fails")
	assert.Equal(t, 1, api.logoutCalls)
}

func TestInvalidateNotifiesSubscribers(t *testing.T) {
	api := &fakeAPI{loginStatus: &gateway.AuthStatus{Role: "admin", UserName: "Root"}}
	c := NewController(api, nil)
	_, err := c.Login(context.Background(), "root", "secret")
	require.NoError(t, err)

	count := 0
	c.Subscribe(func() { count++ })
	c.Subscribe(func() { count++ })

	c.Invalidate()

	assert.False(t, c.Current().Authenticated)
	assert.Equal(t, 2, count)
}

func TestRoleDisplayNameInvariant(t *testing.T) {
	// Role and DisplayName must be empty exactly when unauthenticated.
	api := &fakeAPI{loginStatus: &gateway.AuthStatus{Role: "admin", UserName: "Root"}}
	c := NewController(api, nil)

	s := c.Current()
	assert.False(t, s.Authenticated)
	assert.Empty(t, s.Role)

	_, err := c.Login(context.Background(), "root", "secret")
	require.NoError(t, err)
	s = c.Current()
	assert.NotEmpty(t, s.Role)
	assert.NotEmpty(t, s.DisplayName)

	c.Invalidate()
	s = c.Current()
	assert.Empty(t, s.Role)
	assert.Empty(t, s.DisplayName)
}
