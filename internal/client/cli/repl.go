package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Feeds(ctx context.Context) error
	Matches(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	Notifications(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Block(ctx context.Context, args []string) error
}

// runREPL reads a line, parses the first token as the command, and dispatches
// to methods on 'a'. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprintf(w, "matchy %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: feeds, matches [search], chat <matchId>, notifications, profile, report <userId>, block <userId>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "feeds":
			_ = a.Feeds(ctx)

		case "matches":
			_ = a.Matches(ctx, args)

		case "chat":
			_ = a.Chat(ctx, args)

		case "notifications":
			_ = a.Notifications(ctx)

		case "profile":
			_ = a.Profile(ctx, args)

		case "report":
			_ = a.Report(ctx, args)

		case "block":
			_ = a.Block(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
