// Package session owns the authenticated session: the current user identity
// and the bearer token, persisted across restarts as a single durable
// record. It is the only component allowed to mutate session state; everyone
// else reads it through accessors or the subscription protocol.
package session

import (
	"context"
	"sync"

	"github.com/avolkov/tracklight/internal/client/models"
	"github.com/avolkov/tracklight/internal/logging"
)

// Store is the process-wide credential store. Construct one per process
// (or per test) with New; there are no package-level globals.
//
// Invariant: IsAuthenticated() == true exactly when a token is held.
type Store struct {
	mu    sync.Mutex
	user  *models.User
	token string

	record *Record

	subs    map[int]func()
	nextSub int

	log logging.Logger
}

// New creates a Store persisting to record. A nil record disables
// persistence (useful in tests).
func New(record *Record, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{record: record, subs: make(map[int]func()), log: log}
}

// Load rehydrates the store from the durable record. It must be called
// before dependent components read the store. A missing, malformed or
// expired record leaves the store in the unauthenticated default; Load
// never fails the startup path.
func (s *Store) Load(ctx context.Context) {
	if s.record == nil {
		return
	}
	snap, err := s.record.Read()
	if err != nil {
		s.log.Warn(ctx, "session record unreadable, starting unauthenticated", "err", err)
		return
	}
	if snap == nil {
		return
	}
	if tokenExpired(snap.Token) {
		s.log.Info(ctx, "persisted session expired, starting unauthenticated")
		_ = s.record.Clear()
		return
	}

	s.mu.Lock()
	s.user = snap.User
	s.token = snap.Token
	s.mu.Unlock()
}

// Login installs the identity and bearer token and persists the snapshot.
func (s *Store) Login(user models.User, token string) {
	s.mu.Lock()
	u := user
	s.user = &u
	s.token = token
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// Logout clears the identity and token and removes the persisted snapshot.
// Calling it while already logged out is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.user = nil
	s.token = ""
	if s.record != nil {
		_ = s.record.Clear()
	}
	s.mu.Unlock()

	if wasAuthenticated {
		s.notify()
	}
}

// UpdateUser replaces the identity fields without touching the token.
// Ignored silently when unauthenticated.
func (s *Store) UpdateUser(user models.User) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	u := user
	s.user = &u
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// Current returns a copy of the logged-in user, or nil.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token as of the call, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Subscribe registers fn to run after every state change and returns the
// function that removes the subscription. Callbacks run outside the store
// lock, so they may call back into the store.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) persistLocked() {
	if s.record == nil {
		return
	}
	if err := s.record.Write(&Snapshot{User: s.user, Token: s.token}); err != nil {
		s.log.Error(context.Background(), "failed to persist session", "err", err)
	}
}
