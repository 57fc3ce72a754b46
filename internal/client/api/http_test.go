package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/tracklight/internal/client/transport"
	"github.com/avolkov/tracklight/internal/common"
)

type fixedTokens struct{ tok string }

func (f *fixedTokens) Token() string { return f.tok }

func newClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(srv.URL, &fixedTokens{tok: "tok1"}, nil, nil)
	return NewHTTPClient(tr), srv
}

func TestLogin_ParsesAuthResponse(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.com", body["email"])
		require.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok1",
			"token_type":   "bearer",
			"user":         map[string]string{"id": "u1", "email": "a@b.com"},
		})
	}))

	resp, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok1", resp.AccessToken)
	require.Equal(t, "u1", resp.User.ID)
}

func TestLogin_ValidationErrorCarriesDetail(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Contains(t, err.Error(), "Incorrect email or password")
}

func TestRunningTimer_EmptyBodyMeansNoTimer(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec, err := c.RunningTimer(context.Background())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestRunningTimer_NullBodyMeansNoTimer(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))

	rec, err := c.RunningTimer(context.Background())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestRunningTimer_ParsesRecord(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/time-entries/timer/running", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":              "t1",
			"project_id":      "p1",
			"elapsed_seconds": 120,
		})
	}))

	rec, err := c.RunningTimer(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t1", rec.ID)
	require.Equal(t, 120, rec.ElapsedSeconds)
}

func TestStartTimer_MarksConfirmed(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "p1", body["project_id"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "t-99", "project_id": "p1", "elapsed_seconds": 0})
	}))

	rec, err := c.StartTimer(context.Background(), "p1", "fixing the build")
	require.NoError(t, err)
	require.Equal(t, "t-99", rec.ID)
	require.True(t, rec.ServerConfirmed)
}

func TestStopTimer_ReturnsCompletedEntry(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/time-entries/timer/stop", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": "t1", "project_id": "p1", "duration_seconds": 95})
	}))

	entry, err := c.StopTimer(context.Background())
	require.NoError(t, err)
	require.Equal(t, 95, entry.DurationSeconds)
}

func TestProjects_ParsesList(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/projects/", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "p1", "name": "Acme site", "status": "active", "color": "#ff0000"},
			{"id": "p2", "name": "Internal tooling"},
		})
	}))

	projects, err := c.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "p1", projects[0].ID)
	require.Equal(t, "Acme site", projects[0].Name)
	require.Equal(t, "active", projects[0].Status)
}

func TestExchangeOAuthCallback_ErrorParam(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an error callback")
	}))

	_, _, err := c.ExchangeOAuthCallback(context.Background(), "error=access_denied")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestExchangeOAuthCallback_TokenValidatedViaMe(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me", r.URL.Path)
		require.Equal(t, "Bearer oauth-tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@b.com"})
	}))

	u, tok, err := c.ExchangeOAuthCallback(context.Background(), "token=oauth-tok")
	require.NoError(t, err)
	require.Equal(t, "oauth-tok", tok)
	require.Equal(t, "u1", u.ID)
}

func TestExchangeOAuthCallback_MissingToken(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, _, err := c.ExchangeOAuthCallback(context.Background(), "")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestOAuthURLs(t *testing.T) {
	c, srv := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	require.Equal(t, srv.URL+"/auth/google", c.GoogleLoginURL())
	require.Equal(t, srv.URL+"/auth/github", c.GithubLoginURL())
}
