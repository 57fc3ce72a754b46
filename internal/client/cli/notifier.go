package cli

import (
	"fmt"
	"io"
	"sync"
)

// PrintNotifier is the CLI stand-in for the web client's toast layer:
// non-blocking, one line per notification, never a dialog.
type PrintNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrintNotifier(out io.Writer) *PrintNotifier {
	return &PrintNotifier{out: out}
}

func (n *PrintNotifier) Success(msg string) {
	n.mu.Lock()
	fmt.Fprintln(n.out, "OK:", msg)
	n.mu.Unlock()
}

func (n *PrintNotifier) Error(msg string) {
	n.mu.Lock()
	fmt.Fprintln(n.out, "ERROR:", msg)
	n.mu.Unlock()
}

// loginNavigator is the CLI's "redirect to /login": it tells the user the
// session is gone. Browser builds would swap in a location change here.
type loginNavigator struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *loginNavigator) NavigateLogin() {
	n.mu.Lock()
	fmt.Fprintln(n.out, "Session ended. Please run 'login'.")
	n.mu.Unlock()
}
