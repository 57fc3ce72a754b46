package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkov/tracklight/internal/common"
)

// StartTimer prompts for a project and kicks the shared controller. The
// controller answers immediately with an optimistic record; confirmation or
// rollback arrives through the notifier.
func (a *App) StartTimer(ctx context.Context) error {
	projectID, err := GetSimpleText(a.reader, "Project id", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.timers.Start(ctx, projectID, description); err != nil {
		if errors.Is(err, common.ErrTimerAlreadyRunning) {
			a.notifier.Error("A timer is already running. Stop it first.")
			return err
		}
		a.notifier.Error("Failed to start timer: " + err.Error())
		return err
	}

	fmt.Fprintln(a.out, a.hero.Render())
	return nil
}

func (a *App) StopTimer(ctx context.Context) error {
	if err := a.timers.Stop(ctx); err != nil {
		if errors.Is(err, common.ErrNoRunningTimer) {
			a.notifier.Error("No timer is running.")
			return err
		}
		return err
	}
	return nil
}

// Status renders the dashboard behind the session gate: unauthenticated
// users are sent to login instead of seeing the view.
func (a *App) Status(ctx context.Context) error {
	a.mountGated(func() {
		fmt.Fprintln(a.out, a.header.Render())
		fmt.Fprintln(a.out, a.hero.Render())
	})
	return nil
}

// Projects lists the account's projects so start has ids to offer.
func (a *App) Projects(ctx context.Context) error {
	a.mountGated(func() {
		list, err := a.api.Projects(ctx)
		if err != nil {
			a.notifier.Error("Could not fetch projects: " + err.Error())
			return
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, "No projects yet.")
			return
		}
		for _, p := range list {
			line := p.ID + "  " + p.Name
			if p.Status != "" {
				line += "  (" + p.Status + ")"
			}
			fmt.Fprintln(a.out, line)
		}
	})
	return nil
}

// Entries lists recent time entries, falling back to the local cache when
// the server is unreachable.
func (a *App) Entries(ctx context.Context) error {
	a.mountGated(func() {
		list, err := a.api.TimeEntries(ctx)
		cached := false
		if err != nil {
			if !errors.Is(err, common.ErrUnavailable) {
				a.notifier.Error("Could not fetch entries: " + err.Error())
				return
			}
			list, err = a.repos.Entries.Recent(ctx, 10)
			if err != nil {
				a.notifier.Error("Could not read cached entries: " + err.Error())
				return
			}
			cached = true
		}

		if len(list) == 0 {
			fmt.Fprintln(a.out, "No entries yet.")
			return
		}
		for _, e := range list {
			line := fmt.Sprintf("%s  %s  %s  %s",
				e.StartTime.Format("2006-01-02 15:04"),
				FormatElapsed(e.DurationSeconds),
				e.ProjectID,
				e.Description)
			if cached {
				line += " (cached)"
			}
			fmt.Fprintln(a.out, line)
		}
	})
	return nil
}
