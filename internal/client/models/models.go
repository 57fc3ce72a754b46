// Package models defines the payload types exchanged with the Tracklight
// API and the client-side timer record.
package models

import "time"

// User is the authenticated account identity as reported by the server.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// DisplayName returns the name shown in UI surfaces, falling back to the
// email when the profile has no name set.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// AuthResponse is returned by POST /auth/login and POST /auth/register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Project is a trackable project as returned by GET /projects/. Only the
// fields the timer surfaces need are decoded; billing fields stay server-side.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status,omitempty"`
	Color      string    `json:"color,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// TimerStartRequest is the body of POST /time-entries/timer/start.
type TimerStartRequest struct {
	ProjectID   string `json:"project_id"`
	Description string `json:"description,omitempty"`
}

// TimerRecord describes the running timer. At most one exists at a time.
//
// ServerConfirmed is false while the record is an optimistic placeholder
// installed ahead of server confirmation; such records carry a synthetic
// "temp-" id until the server assigns a real one.
type TimerRecord struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Description    string    `json:"description,omitempty"`
	StartTime      time.Time `json:"start_time"`
	ElapsedSeconds int       `json:"elapsed_seconds"`

	ServerConfirmed bool `json:"-"`
}

// TimeEntry is a completed entry as returned by PATCH /time-entries/timer/stop
// and GET /time-entries/.
type TimeEntry struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	ProjectName     string     `json:"project_name,omitempty"`
	Description     string     `json:"description,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
}

// APIError is the error envelope the server uses for 4xx responses.
type APIError struct {
	Detail string `json:"detail"`
}
