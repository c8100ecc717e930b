package gateway

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeewave/teller/internal/errors"
)

// newTestServer starts an HTTP server bound to IPv4-only loopback so tests work
// inside restricted sandboxes that forbid IPv6 listeners.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

func TestLoginSendsFormEncoded(t *testing.T) {
	var gotContentType, gotUsername string

	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotUsername = r.PostFormValue("username")

		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "jwt"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"role":"teller","user_name":"Asha"}`))
	}))

	client := NewClient(server.URL)
	status, err := client.Login(context.Background(), "asha", "secret")
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "asha", gotUsername)
	assert.Equal(t, "teller", status.Role)
	assert.Equal(t, "Asha", status.UserName)
}

func TestLoginFailureSurfacesDetailVerbatim(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	}))

	expired := false
	client := NewClient(server.URL)
	client.OnSessionExpired(func() { expired = true })

	_, err := client.Login(context.Background(), "asha", "wrong")
	require.Error(t, err)

	// A rejected login is a credential error, never a session expiry.
	assert.False(t, expired)
	assert.False(t, errors.IsSessionExpired(err))
	assert.Equal(t, "Incorrect username or password", errors.UserMessage(err))
}

func TestCookieAttachedToSubsequentCalls(t *testing.T) {
	var historyCookie string

	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "jwt-value", Path: "/"})
			_, _ = w.Write([]byte(`{"role":"admin","user_name":"Root"}`))
		default:
			if c, err := r.Cookie("access_token"); err == nil {
				historyCookie = c.Value
			}
			_, _ = w.Write([]byte(`{"history":[]}`))
		}
	}))

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), "root", "secret")
	require.NoError(t, err)

	_, err = client.History(context.Background(), "AC1001", "1111")
	require.NoError(t, err)

	assert.Equal(t, "jwt-value", historyCookie, "session cookie must ride along automatically")
}

func TestUnauthorizedClassification(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))

	fired := 0
	client := NewClient(server.URL)
	client.OnSessionExpired(func() { fired++ })

	_, err := client.Deposit(context.Background(), TransactionRequest{AccNo: "AC1001", Pin: "1111", Amount: 100})
	require.Error(t, err)

	assert.True(t, errors.IsSessionExpired(err))
	assert.Equal(t, 1, fired)
	// The raw backend body must not leak through.
	assert.NotContains(t, err.Error(), "Could not validate credentials")
}

func TestUnauthorizedClassificationOnGET(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	fired := false
	client := NewClient(server.URL)
	client.OnSessionExpired(func() { fired = true })

	_, err := client.History(context.Background(), "AC1001", "1111")
	require.Error(t, err)
	assert.True(t, errors.IsSessionExpired(err))
	assert.True(t, fired, "401 forces invalidation regardless of operation")
}

func TestApplicationErrorDetail(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Insufficient balance"}`))
	}))

	client := NewClient(server.URL)
	_, err := client.Withdraw(context.Background(), TransactionRequest{AccNo: "AC1001", Pin: "1111", Amount: 9999})
	require.Error(t, err)
	assert.Equal(t, "Insufficient balance", errors.UserMessage(err))
}

func TestApplicationErrorFallback(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>gateway timeout</html>`))
	}))

	client := NewClient(server.URL)
	_, err := client.Transfer(context.Background(), TransferRequest{AccNo: "AC1001", Pin: "1111", RecAccNo: "AC1002", Amount: 100})
	require.Error(t, err)
	assert.Equal(t, "Transfer failed", errors.UserMessage(err), "unparseable body falls back to the operation message")
}

func TestTransportError(t *testing.T) {
	// A closed server guarantees a connection failure.
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	client := NewClient(base)
	_, err := client.Enquiry(context.Background(), EnquiryRequest{AccNo: "AC1001", Pin: "1111"})
	require.Error(t, err)
	assert.False(t, errors.IsSessionExpired(err))
	assert.Equal(t, "Enquiry failed", errors.UserMessage(err))
}

func TestRequestIDAttached(t *testing.T) {
	var ids []string
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))

	client := NewClient(server.URL)
	_, err := client.Deposit(context.Background(), TransactionRequest{AccNo: "AC1001", Pin: "1111", Amount: 1})
	require.NoError(t, err)
	_, err = client.Deposit(context.Background(), TransactionRequest{AccNo: "AC1001", Pin: "1111", Amount: 1})
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}
