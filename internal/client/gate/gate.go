// Package gate guards protected views: unauthenticated visitors are
// redirected to the login surface and never see protected content, and a
// session that dies while a view is mounted redirects immediately.
package gate

import (
	"sync"
	"time"

	"github.com/avolkov/tracklight/internal/client/session"
)

// Navigator performs the redirect to the login surface. The application
// wires it to its navigation mechanism; the gate stays UI-agnostic.
type Navigator interface {
	NavigateLogin()
}

// Gate composes with any protected view.
type Gate struct {
	sessions *session.Store
	nav      Navigator

	// settle delays the first render so a store still rehydrating does not
	// flash a redirect. Zero renders synchronously.
	settle time.Duration
}

func New(sessions *session.Store, nav Navigator, settle time.Duration) *Gate {
	return &Gate{sessions: sessions, nav: nav, settle: settle}
}

// Mount guards one view. When authenticated, render runs once the settle
// delay elapses; when not, the navigator is invoked instead and render
// never runs. While mounted, the gate watches the session and redirects
// the moment authentication is lost. The returned function unmounts the
// view and releases the subscription.
func (g *Gate) Mount(render func()) (unmount func()) {
	if !g.sessions.IsAuthenticated() {
		g.nav.NavigateLogin()
		return func() {}
	}

	m := &mounted{gate: g, render: render}
	m.unsub = g.sessions.Subscribe(m.onSessionChange)

	if g.settle <= 0 {
		m.renderIfAlive()
	} else {
		m.timer = time.AfterFunc(g.settle, m.renderIfAlive)
	}

	return m.unmount
}

type mounted struct {
	gate   *Gate
	render func()

	mu         sync.Mutex
	dead       bool
	redirected bool
	timer      *time.Timer
	unsub      func()
}

func (m *mounted) renderIfAlive() {
	m.mu.Lock()
	ok := !m.dead && !m.redirected && m.gate.sessions.IsAuthenticated()
	m.mu.Unlock()
	if ok {
		m.render()
	}
}

func (m *mounted) onSessionChange() {
	if m.gate.sessions.IsAuthenticated() {
		return
	}
	m.mu.Lock()
	fire := !m.dead && !m.redirected
	m.redirected = m.redirected || fire
	m.mu.Unlock()
	if fire {
		m.gate.nav.NavigateLogin()
	}
}

func (m *mounted) unmount() {
	m.mu.Lock()
	m.dead = true
	t := m.timer
	m.mu.Unlock()
	if t != nil {
		t.Stop()
	}
	m.unsub()
}
