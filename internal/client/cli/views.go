package cli

import (
	"fmt"

	"github.com/avolkov/tracklight/internal/client/session"
	"github.com/avolkov/tracklight/internal/client/timer"
)

// FormatElapsed renders seconds as HH:MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// HeaderWidget is the compact timer line shown in the prompt — the CLI
// counterpart of the global header widget. It renders purely from the
// shared controller and never ticks on its own.
type HeaderWidget struct {
	timers *timer.Controller
}

func NewHeaderWidget(timers *timer.Controller) *HeaderWidget {
	return &HeaderWidget{timers: timers}
}

func (w *HeaderWidget) Render() string {
	rec := w.timers.Running()
	if rec == nil {
		return "[--:--:--]"
	}
	return fmt.Sprintf("[%s %s]", FormatElapsed(w.timers.Elapsed()), rec.ProjectID)
}

// HeroView is the dashboard hero: a fuller rendering of the same shared
// state, independent of the header widget.
type HeroView struct {
	sessions *session.Store
	timers   *timer.Controller
}

func NewHeroView(sessions *session.Store, timers *timer.Controller) *HeroView {
	return &HeroView{sessions: sessions, timers: timers}
}

func (v *HeroView) Render() string {
	name := "there"
	if u := v.sessions.Current(); u != nil {
		name = u.DisplayName()
	}

	rec := v.timers.Running()
	if rec == nil {
		return fmt.Sprintf("Hi %s — no timer running.", name)
	}

	line := fmt.Sprintf("Hi %s — tracking %q on project %s for %s",
		name, rec.Description, rec.ProjectID, FormatElapsed(v.timers.Elapsed()))
	if !rec.ServerConfirmed {
		line += " (syncing)"
	}
	return line
}
