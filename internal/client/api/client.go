// Package api provides typed wrappers around the Tracklight REST endpoints.
// The server is an opaque collaborator; this layer only knows its paths and
// payload shapes.
package api

import (
	"context"

	"github.com/avolkov/tracklight/internal/client/models"
)

// Client is the surface the rest of the application programs against.
// Tests substitute a fake.
type Client interface {
	// Login exchanges email/password for a bearer token and user identity.
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)

	// Register creates an account and logs it in.
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)

	// Me returns the user the current credential belongs to.
	Me(ctx context.Context) (*models.User, error)

	// RunningTimer returns the in-progress timer, or (nil, nil) when none.
	RunningTimer(ctx context.Context) (*models.TimerRecord, error)

	// StartTimer begins a timer for a project.
	StartTimer(ctx context.Context, projectID, description string) (*models.TimerRecord, error)

	// StopTimer stops the running timer and returns the completed entry.
	StopTimer(ctx context.Context) (*models.TimeEntry, error)

	// TimeEntries lists the account's time entries.
	TimeEntries(ctx context.Context) ([]models.TimeEntry, error)

	// Projects lists the account's projects.
	Projects(ctx context.Context) ([]models.Project, error)
}
