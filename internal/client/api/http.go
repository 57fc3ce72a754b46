package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/avolkov/tracklight/internal/client/models"
	"github.com/avolkov/tracklight/internal/client/transport"
	"github.com/avolkov/tracklight/internal/common"
)

// HTTPClient implements Client over the intercepting transport.
type HTTPClient struct {
	tr *transport.Client
}

func NewHTTPClient(tr *transport.Client) *HTTPClient {
	return &HTTPClient{tr: tr}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.tr.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.tr.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.tr.Get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) RunningTimer(ctx context.Context) (*models.TimerRecord, error) {
	var rec *models.TimerRecord
	if err := c.tr.Get(ctx, "/time-entries/timer/running", &rec); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// an empty or null body decodes to a nil record: no timer running
	return rec, nil
}

func (c *HTTPClient) StartTimer(ctx context.Context, projectID, description string) (*models.TimerRecord, error) {
	var rec models.TimerRecord
	req := models.TimerStartRequest{ProjectID: projectID, Description: description}
	if err := c.tr.Post(ctx, "/time-entries/timer/start", req, &rec); err != nil {
		return nil, err
	}
	rec.ServerConfirmed = true
	return &rec, nil
}

func (c *HTTPClient) StopTimer(ctx context.Context) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := c.tr.Patch(ctx, "/time-entries/timer/stop", nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) TimeEntries(ctx context.Context) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := c.tr.Get(ctx, "/time-entries/", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.tr.Get(ctx, "/projects/", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GoogleLoginURL is the browser entry point for the Google OAuth flow.
func (c *HTTPClient) GoogleLoginURL() string { return c.tr.BaseURL() + "/auth/google" }

// GithubLoginURL is the browser entry point for the GitHub OAuth flow.
func (c *HTTPClient) GithubLoginURL() string { return c.tr.BaseURL() + "/auth/github" }

// ExchangeOAuthCallback completes an OAuth flow from the callback query
// string. The provider redirects back carrying either token or error; on
// token, the identity is fetched with that credential before anything is
// stored, so a bad token never becomes a session.
func (c *HTTPClient) ExchangeOAuthCallback(ctx context.Context, rawQuery string) (*models.User, string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, "", fmt.Errorf("parse callback query: %w", err)
	}

	if e := values.Get("error"); e != "" {
		return nil, "", fmt.Errorf("%w: %s", common.ErrUnauthorized, e)
	}

	token := values.Get("token")
	if token == "" {
		return nil, "", fmt.Errorf("%w: callback carried no token", common.ErrUnauthorized)
	}

	var u models.User
	if err := c.tr.GetWithToken(ctx, "/auth/me", token, &u); err != nil {
		return nil, "", err
	}
	return &u, token, nil
}
