// Package gateway is the single chokepoint through which every banking
// operation reaches the backend. It owns request construction, ambient
// credential attachment, status-code interpretation, and error
// unwrapping, so that callers always receive either a parsed payload or
// an error with a human-readable message.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/log"
)

// Client is the banking service API client. The session credential is a
// server-set cookie held by the injected jar; the client never reads or
// stores a token itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger

	// onSessionExpired fires exactly once per 401 classification so the
	// session layer can reset state without the transport layer knowing
	// anything about views.
	onSessionExpired func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The replacement's
// cookie jar becomes the session credential store.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCookieJar injects the credential provider. Tests substitute a
// pre-seeded jar to fake an authenticated session.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.httpClient.Jar = jar
	}
}

// WithLogger sets the structured logger for call tracing
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a gateway client for the given base URL
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		logger: log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSessionExpired registers the handler fired whenever any call is
// classified as unauthorized. At most one handler is held; the session
// layer fans out to its own subscribers.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// BaseURL returns the resolved backend endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// detailResponse is the backend's uniform error shape
type detailResponse struct {
	Detail string `json:"detail"`
}

// doJSON performs an authenticated JSON call (POST or PUT) and decodes
// the response into out. A 401 on any operation forces session
// invalidation; this is the one classification rule shared by every
// mutating operation.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, fallback string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, fallback, out, true)
}

// getQuery performs an authenticated GET with query-string parameters
func (c *Client) getQuery(ctx context.Context, path string, params url.Values, fallback string, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
	}

	return c.send(req, fallback, out, true)
}

// postForm performs a form-encoded POST. The login endpoint keeps this
// encoding for compatibility with the backend's auth form handler, and
// a failed login is a credential error rather than an expired session,
// so no 401 classification applies here.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, fallback string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.send(req, fallback, out, false)
}

// postBare performs an authenticated POST with no body and no 401
// classification. Used by the session probe's companions (logout),
// where an unauthorized status must not recurse into invalidation.
func (c *Client) postBare(ctx context.Context, path string, fallback string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
	}

	return c.send(req, fallback, out, false)
}

// getBare performs an authenticated GET with no 401 classification.
// The session probe treats any non-success as unauthenticated, so
// classifying would only loop the invalidation handler at startup.
func (c *Client) getBare(ctx context.Context, path string, fallback string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
	}

	return c.send(req, fallback, out, false)
}

// send executes the request and maps every outcome onto the error
// taxonomy: transport failure, session expiry, application error with
// the backend's detail, or a decoded success payload.
func (c *Client) send(req *http.Request, fallback string, out any, classify401 bool) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	logger := c.logger.With(
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("transport failure")
		return errors.NewTransportError(fallback, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Warn("read response")
		return errors.NewTransportError(fallback, err)
	}

	logger.Debug("gateway call", "status", resp.StatusCode, "duration", time.Since(start))

	if classify401 && resp.StatusCode == http.StatusUnauthorized {
		logger.Warn("unauthorized, invalidating session")
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return errors.NewSessionExpiredError()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp detailResponse
		_ = json.Unmarshal(respBody, &errResp)
		return errors.NewAPIError(fallback, errResp.Detail)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrap(errors.ErrCodeAPIFailure, fallback, err)
		}
	}

	return nil
}
