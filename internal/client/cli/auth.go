package cli

import (
	"context"
	"fmt"

	"github.com/avolkov/tracklight/internal/client/models"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.notifier.Error("Login failed: " + err.Error())
		return err
	}

	a.sessions.Login(resp.User, resp.AccessToken)
	a.notifier.Success("Welcome back!")
	a.timers.Hydrate(ctx)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	firstName, err := GetSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Register(ctx, models.RegisterRequest{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
	})
	if err != nil {
		a.notifier.Error("Registration failed: " + err.Error())
		return err
	}

	a.sessions.Login(resp.User, resp.AccessToken)
	a.notifier.Success("Account created successfully!")
	a.timers.Hydrate(ctx)
	return nil
}

// OAuth walks the user through a provider flow: open one of the printed
// URLs in a browser, then paste the query string the provider's redirect
// lands on (token=... or error=...).
func (a *App) OAuth(ctx context.Context) error {
	fmt.Fprintln(a.out, "Google:", a.api.GoogleLoginURL())
	fmt.Fprintln(a.out, "GitHub:", a.api.GithubLoginURL())

	query, err := GetSimpleText(a.reader, "Paste the callback query string", a.out)
	if err != nil {
		return err
	}

	user, token, err := a.api.ExchangeOAuthCallback(ctx, query)
	if err != nil {
		a.notifier.Error("Authentication failed. Please try again.")
		return err
	}

	a.sessions.Login(*user, token)
	a.notifier.Success("Successfully logged in!")
	a.timers.Hydrate(ctx)
	return nil
}

// WhoAmI refreshes the identity from the server and prints it.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		a.notifier.Error("Could not fetch profile: " + err.Error())
		return err
	}

	a.sessions.UpdateUser(*user)
	fmt.Fprintf(a.out, "%s <%s>\n", user.DisplayName(), user.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout()
	if err := a.repos.Entries.Clear(ctx); err != nil {
		a.log.Warn(ctx, "failed to clear local cache", "err", err)
	}
	a.notifier.Success("Logged out successfully")
	return nil
}
