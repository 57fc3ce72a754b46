package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	OAuth(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	StartTimer(ctx context.Context) error
	StopTimer(ctx context.Context) error
	Status(ctx context.Context) error
	Entries(ctx context.Context) error
	Projects(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Tracklight CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate with email and password
//	  - oauth          — authenticate via Google or GitHub
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - start          — start a timer on a project
//	  - stop           — stop the running timer
//	  - status         — show the dashboard view
//	  - entries        — list recent time entries
//	  - projects       — list projects
//	  - whoami         — show and refresh the current profile
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers notify
// the user themselves. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tl> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: start, stop, status, entries, projects, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, oauth, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "oauth":
			_ = a.OAuth(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "start":
			_ = a.StartTimer(ctx)

		case "stop":
			_ = a.StopTimer(ctx)

		case "s", "status":
			_ = a.Status(ctx)

		case "entries":
			_ = a.Entries(ctx)

		case "projects":
			_ = a.Projects(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
