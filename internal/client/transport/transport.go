// Package transport wraps net/http so that every outbound request carries
// the current bearer credential and every unauthorized response invalidates
// the session exactly once. Call sites never handle either concern
// themselves.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avolkov/tracklight/internal/common"
	"github.com/avolkov/tracklight/internal/logging"
)

// TokenSource supplies the bearer token at dispatch time. The session store
// satisfies it.
type TokenSource interface {
	Token() string
}

// Client is the authenticated HTTP client shared by all API wrappers.
//
// On any 401 response it fires onAuthFailure once per failure episode; the
// episode re-arms through ResetAuthEpisode (wired to the next login). The
// original response still reaches the caller so request-specific error
// handling keeps working.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	onAuthFailure func()
	authEpisode   atomic.Bool

	log logging.Logger
}

// New builds a Client for baseURL. onAuthFailure may be nil.
func New(baseURL string, tokens TokenSource, onAuthFailure func(), log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		tokens:        tokens,
		onAuthFailure: onAuthFailure,
		log:           log,
	}
	c.http = &http.Client{
		Timeout:   30 * time.Second,
		Transport: &authTripper{next: http.DefaultTransport, c: c},
	}
	return c
}

// BaseURL returns the configured API root, without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ResetAuthEpisode re-arms the forced-logout hook. Called after a new login
// so a later credential failure is handled again.
func (c *Client) ResetAuthEpisode() { c.authEpisode.Store(false) }

// authTripper injects the bearer header and watches for 401s. The token is
// read when the request is dispatched, not when the caller was built, so
// logins and logouts between the two take effect.
type authTripper struct {
	next http.RoundTripper
	c    *Client
}

func (t *authTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.AuthHeaderName) == "" {
		if tok := t.c.tokens.Token(); tok != "" {
			req = req.Clone(req.Context())
			req.Header.Set(common.AuthHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.c.handleAuthFailure(req.Context())
	}

	return resp, nil
}

// handleAuthFailure runs the forced-logout hook at most once per episode.
// The hook itself clears the session, so any request it triggers goes out
// without a credential and cannot re-enter here with another 401 loop.
func (c *Client) handleAuthFailure(ctx context.Context) {
	if !c.authEpisode.CompareAndSwap(false, true) {
		return
	}
	c.log.Warn(ctx, "credential rejected by server, forcing logout")
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}

// Get performs GET and decodes a JSON body into out (skipped when the
// response has no content).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// Post performs POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, "", in, out)
}

// Patch performs PATCH with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, "", in, out)
}

// GetWithToken performs GET presenting an explicit bearer token instead of
// the session one. Used by the OAuth callback exchange, which must validate
// a token before the session store holds it.
func (c *Client) GetWithToken(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return c.mapError(resp.StatusCode, data)
}

// mapError converts HTTP failures into the shared sentinels, keeping the
// server's detail message for inline display.
func (c *Client) mapError(status int, body []byte) error {
	detail := errorDetail(body)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail != "" {
			return fmt.Errorf("%w: %s", common.ErrUnauthorized, detail)
		}
		return common.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if detail != "" {
			return fmt.Errorf("%w: %s", common.ErrValidation, detail)
		}
		return common.ErrValidation
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", common.ErrorNotFound, detail)
		}
		return common.ErrorNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", status, detail)
	}
}

func errorDetail(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return strings.TrimSpace(string(body))
	}
	return e.Detail
}
