// Package cli hosts the interactive Tracklight client: a small REPL over
// the session store, the timer controller, and the typed API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avolkov/tracklight/internal/client/api"
	"github.com/avolkov/tracklight/internal/client/client"
	"github.com/avolkov/tracklight/internal/client/config"
	"github.com/avolkov/tracklight/internal/client/gate"
	"github.com/avolkov/tracklight/internal/client/session"
	"github.com/avolkov/tracklight/internal/client/timer"
	"github.com/avolkov/tracklight/internal/client/transport"
	"github.com/avolkov/tracklight/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	sessions *session.Store
	timers   *timer.Controller
	api      *api.HTTPClient
	repos    *client.Repositories
	gate     *gate.Gate
	notifier *PrintNotifier

	header *HeaderWidget
	hero   *HeroView

	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the client together. The wiring order matters: the session
// store must rehydrate before the transport or the gate read it, and the
// forced-logout hook must reach both the store and the navigator.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	out := io.Writer(os.Stdout)
	notifier := NewPrintNotifier(out)
	nav := &loginNavigator{out: out}

	sessions := session.New(session.DefaultRecord(cfg.SessionFile), log)
	sessions.Load(ctx)

	// 401 anywhere: clear the session once, then send the user to login.
	// Propagation of the original error stays with the failing call site.
	tr := transport.New(cfg.BaseAPIURL, sessions, func() {
		sessions.Logout()
		nav.NavigateLogin()
	}, log)

	apiClient := api.NewHTTPClient(tr)

	repos, err := client.InitDatabase(ctx, cfg.CacheDB)
	if err != nil {
		return nil, fmt.Errorf("init cache database: %w", err)
	}

	timers := timer.New(apiClient, repos.Entries, notifier, log,
		timer.WithTickInterval(cfg.TickInterval))

	// session transitions ripple outward: a fresh login re-arms the
	// forced-logout episode, a logout tears the timer down.
	sessions.Subscribe(func() {
		if sessions.IsAuthenticated() {
			tr.ResetAuthEpisode()
		} else {
			timers.Reset()
		}
	})

	a := &App{
		config:   cfg,
		log:      log,
		sessions: sessions,
		timers:   timers,
		api:      apiClient,
		repos:    repos,
		gate:     gate.New(sessions, nav, cfg.SettleDelay),
		notifier: notifier,
		reader:   bufio.NewReader(os.Stdin),
		out:      out,
	}
	a.header = NewHeaderWidget(timers)
	a.hero = NewHeroView(sessions, timers)
	return a, nil
}

// Run hydrates the timer for a persisted session and drives the REPL until
// the user leaves or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.sessions.IsAuthenticated() {
		a.timers.Hydrate(ctx)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.promptStatus, scanner)
}

// Close releases the cache database and halts the timer cadence.
func (a *App) Close() error {
	a.timers.Reset()
	return a.repos.DB.Close()
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

// promptStatus is the status segment of the REPL prompt: who is logged in
// and what the header timer widget shows right now.
func (a *App) promptStatus() string {
	if u := a.sessions.Current(); u != nil {
		return u.DisplayName() + " " + a.header.Render()
	}
	return "not logged in"
}

// mountGated runs render through the session gate, holding the mount open
// long enough for a delayed first render to fire.
func (a *App) mountGated(render func()) {
	unmount := a.gate.Mount(render)
	if a.config.SettleDelay > 0 {
		time.Sleep(a.config.SettleDelay + 10*time.Millisecond)
	}
	unmount()
}
