package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/tracklight/internal/client/models"
)

// Snapshot is the durable session layout: one JSON record holding the user
// and the bearer token, matching the cookie the web client writes so a
// server-side rendering boundary can read the same shape.
type Snapshot struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Record is the single named durable store for the session snapshot.
//
// Name, Path, MaxAge and SameSite describe the cookie the equivalent
// browser client sets ("auth-storage", path-scoped, 7-day expiry, lax);
// they are carried here so anything emitting a Set-Cookie for the session
// renders the same attributes.
type Record struct {
	Name     string
	Path     string
	MaxAge   time.Duration
	SameSite string

	file string
}

// DefaultRecord returns the session record stored at file with the standard
// cookie attributes.
func DefaultRecord(file string) *Record {
	return &Record{
		Name:     "auth-storage",
		Path:     "/",
		MaxAge:   7 * 24 * time.Hour,
		SameSite: "Lax",
		file:     file,
	}
}

// Read loads the snapshot. A missing record yields (nil, nil); a present
// but malformed record yields an error, which callers treat as the
// unauthenticated default.
func (r *Record) Read() (*Snapshot, error) {
	data, err := os.ReadFile(r.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session record: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	if snap.Token == "" {
		return nil, nil
	}
	return &snap, nil
}

// Write stores the snapshot with owner-only permissions.
func (r *Record) Write(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := os.WriteFile(r.file, data, 0o600); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

// Clear removes the record. Removing an absent record is not an error.
func (r *Record) Clear() error {
	if err := os.Remove(r.file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session record: %w", err)
	}
	return nil
}

// tokenExpired reports whether tok is a JWT whose exp claim is in the past.
// The server issues JWTs, so an expired one would only earn a 401 on first
// use; dropping it at rehydration avoids a guaranteed forced logout. Opaque
// tokens and JWTs without exp are kept — the claim is inspected, never
// verified, since the signing key lives on the server.
func tokenExpired(tok string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
