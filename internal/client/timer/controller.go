// Package timer owns the single running timer and its locally ticking
// elapsed counter, reconciling optimistic start/stop actions with the
// server-confirmed record. Every UI surface showing elapsed time reads this
// controller; none of them tick on their own.
package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/tracklight/internal/client/api"
	"github.com/avolkov/tracklight/internal/client/models"
	"github.com/avolkov/tracklight/internal/client/repositories/entries"
	"github.com/avolkov/tracklight/internal/common"
	"github.com/avolkov/tracklight/internal/logging"
)

// State is the controller's externally visible phase. Stopping means the
// user already dismissed the timer (Running() reads nil, the counter is
// zero) while the server stop is still in flight.
type State string

const (
	StateIdle      State = "idle"
	StateHydrating State = "hydrating"
	StateRunning   State = "running"
	StateStopping  State = "stopping"
)

// Notifier receives non-blocking user-facing notifications, the CLI
// equivalent of the web client's toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Controller is the process-wide timer state cell.
//
// Invariants:
//   - at most one running timer at any instant;
//   - no running timer means a zero elapsed counter and no active cadence;
//   - the cadence goroutine is a singleton: installing a new one always
//     cancels the previous one first.
//
// Mutating operations are tagged with a sequence number; a network response
// whose sequence is no longer the newest is for a superseded operation and
// is discarded without touching state.
type Controller struct {
	mu      sync.Mutex
	running *models.TimerRecord
	elapsed int
	state   State
	seq     uint64

	cancelTick chan struct{}
	tickEvery  time.Duration

	subs    map[int]func()
	nextSub int

	api      api.Client
	cache    entries.Repository
	notifier Notifier
	log      logging.Logger
}

// Option customizes a Controller.
type Option func(*Controller)

// WithTickInterval overrides the one-second cadence. Intended for tests and
// non-standard displays; values <= 0 are ignored.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.tickEvery = d
		}
	}
}

// New builds an idle controller. cache and notifier may be nil.
func New(client api.Client, cache entries.Repository, notifier Notifier, log logging.Logger, opts ...Option) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logging.Nop()
	}
	c := &Controller{
		state:     StateIdle,
		tickEvery: time.Second,
		subs:      make(map[int]func()),
		api:       client,
		cache:     cache,
		notifier:  notifier,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Running returns a copy of the running timer, or nil when idle.
func (c *Controller) Running() *models.TimerRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running == nil {
		return nil
	}
	rec := *c.running
	return &rec
}

// Elapsed returns the presentation elapsed-seconds counter. It is seeded
// from the server's elapsed value and advanced locally; the server's own
// duration computation stays authoritative for billing.
func (c *Controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Subscribe registers fn to run after every state change (including ticks)
// and returns the function removing the subscription. Callbacks run outside
// the controller lock.
func (c *Controller) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Start optimistically installs a placeholder running timer and issues the
// server start in the background. Starting while a timer runs is rejected:
// an implicit stop-then-start would silently discard the running entry.
func (c *Controller) Start(ctx context.Context, projectID, description string) error {
	c.mu.Lock()
	if c.running != nil {
		c.mu.Unlock()
		return common.ErrTimerAlreadyRunning
	}
	c.seq++
	seq := c.seq
	c.running = &models.TimerRecord{
		ID:          "temp-" + uuid.NewString(),
		ProjectID:   projectID,
		Description: description,
		StartTime:   time.Now().UTC(),
	}
	c.elapsed = 0
	c.state = StateRunning
	c.startCadenceLocked()
	c.mu.Unlock()
	c.notify()

	go c.confirmStart(ctx, seq, projectID, description)
	return nil
}

func (c *Controller) confirmStart(ctx context.Context, seq uint64, projectID, description string) {
	rec, err := c.api.StartTimer(ctx, projectID, description)
	if err == nil && rec == nil {
		err = errors.New("server returned no timer record")
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.log.Debug(ctx, "discarding superseded start confirmation", "seq", seq)
		return
	}

	if err != nil {
		c.rollbackLocked()
		c.mu.Unlock()
		c.notify()
		c.notifier.Error("Failed to start timer: " + err.Error())
		return
	}

	// Replace the placeholder atomically and reseed the counter from the
	// server's elapsed value to correct optimistic-start drift. The cadence
	// keeps running; only the baseline moves.
	c.running = rec
	c.elapsed = rec.ElapsedSeconds
	c.mu.Unlock()
	c.notify()
	c.notifier.Success("Timer started")
}

// Stop dismisses the timer synchronously (Stopping renders as idle) and
// issues the server stop in the background. If the server rejects the stop,
// the timer is not resurrected:
// the user already dismissed it, so the failure surfaces as a notification
// and the divergence is picked up by the next hydration.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.running == nil {
		c.mu.Unlock()
		return common.ErrNoRunningTimer
	}
	c.seq++
	seq := c.seq
	c.rollbackLocked()
	c.state = StateStopping
	c.mu.Unlock()
	c.notify()

	go c.confirmStop(ctx, seq)
	return nil
}

func (c *Controller) confirmStop(ctx context.Context, seq uint64) {
	entry, err := c.api.StopTimer(ctx)

	c.mu.Lock()
	stale := seq != c.seq
	if !stale {
		c.state = StateIdle
	}
	c.mu.Unlock()
	if stale {
		c.log.Debug(ctx, "discarding superseded stop confirmation", "seq", seq)
		return
	}
	c.notify()

	if err != nil {
		c.notifier.Error("Failed to stop timer: " + err.Error())
		return
	}

	if c.cache != nil && entry != nil {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.cache.Insert(cctx, entry); err != nil {
			c.log.Warn(cctx, "failed to cache completed entry", "err", err)
		}
		cancel()
	}
	c.notifier.Success("Timer stopped")
}

// Hydrate reads the server's running-timer state and seeds the controller.
// It is a read: failures fall back to Idle without any rollback or
// user-facing error. A timer already running locally wins over hydration.
func (c *Controller) Hydrate(ctx context.Context) {
	c.mu.Lock()
	if c.running != nil {
		c.mu.Unlock()
		return
	}
	c.state = StateHydrating
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	rec, err := c.api.RunningTimer(ctx)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.log.Debug(ctx, "discarding superseded hydration", "seq", seq)
		return
	}

	if err != nil || rec == nil {
		if err != nil {
			c.log.Warn(ctx, "timer hydration failed, assuming idle", "err", err)
		}
		c.state = StateIdle
		c.mu.Unlock()
		c.notify()
		return
	}

	rec.ServerConfirmed = true
	c.running = rec
	c.elapsed = rec.ElapsedSeconds
	c.state = StateRunning
	c.startCadenceLocked()
	c.mu.Unlock()
	c.notify()
}

// Reset drops all timer state and supersedes any in-flight operation.
// Called on logout and teardown.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.seq++
	c.rollbackLocked()
	c.mu.Unlock()
	c.notify()
}

// rollbackLocked returns the controller to Idle. Caller holds the lock.
func (c *Controller) rollbackLocked() {
	c.running = nil
	c.elapsed = 0
	c.state = StateIdle
	c.stopCadenceLocked()
}

// startCadenceLocked installs the singleton ticking goroutine, cancelling
// any previous one first. Caller holds the lock.
func (c *Controller) startCadenceLocked() {
	c.stopCadenceLocked()
	quit := make(chan struct{})
	c.cancelTick = quit

	go func() {
		t := time.NewTicker(c.tickEvery)
		defer t.Stop()
		for {
			select {
			case <-quit:
				return
			case <-t.C:
				c.mu.Lock()
				if c.cancelTick != quit || c.running == nil {
					c.mu.Unlock()
					return
				}
				c.elapsed++
				c.mu.Unlock()
				c.notify()
			}
		}
	}()
}

func (c *Controller) stopCadenceLocked() {
	if c.cancelTick != nil {
		close(c.cancelTick)
		c.cancelTick = nil
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
