package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matchy-app/matchy-client/internal/client/models"
)

// Chat opens a conversation and reads messages to send until "/exit".
// "/older" loads the previous history page.
func (a *App) Chat(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: chat <matchId>")
		return nil
	}
	matchID := args[0]

	match, ok := a.findMatch(ctx, matchID)
	if !ok {
		fmt.Fprintf(a.out, "Unknown match %q, run 'matches' first\n", matchID)
		return nil
	}
	other := match.Other(a.userID)

	if err := a.chat.Open(ctx, matchID); err != nil {
		fmt.Fprintf(a.out, "Could not load conversation: %v\n", err)
		return err
	}
	if err := a.chat.MarkSeen(matchID); err != nil {
		a.log.Warn(ctx, "mark seen failed", "matchID", matchID, "error", err)
	}

	fmt.Fprintf(a.out, "Chatting with %s. Type a message, /older for history, /exit to leave.\n", other.FullName())
	a.printMessages(other)

	for {
		line, err := GetSimpleText(a.reader, "", a.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch line {
		case "":
			continue
		case "/exit":
			return nil
		case "/older":
			if err := a.chat.LoadOlder(ctx); err != nil {
				fmt.Fprintf(a.out, "Could not load history: %v\n", err)
				continue
			}
			a.printMessages(other)
		default:
			if _, err := a.chat.Send(ctx, matchID, other.ID, line); err != nil {
				fmt.Fprintf(a.out, "Message not delivered: %v\n", err)
			}
		}
	}
}

// findMatch resolves a match id against the loaded inbox, loading the first
// page when nothing is cached yet.
func (a *App) findMatch(ctx context.Context, matchID string) (models.Match, bool) {
	lookup := func() (models.Match, bool) {
		for _, m := range a.matches.Matches() {
			if m.ID == matchID {
				return m, true
			}
		}
		return models.Match{}, false
	}

	if m, ok := lookup(); ok {
		return m, true
	}
	if err := a.matches.Load(ctx, ""); err != nil {
		return models.Match{}, false
	}
	return lookup()
}

func (a *App) printMessages(other models.User) {
	for _, msg := range a.chat.Messages() {
		who := "me"
		if msg.SenderUser == other.ID {
			who = other.FirstName
		}
		stamp := msg.CreatedAt.Local().Format(time.Kitchen)
		fmt.Fprintf(a.out, "[%s] %s: %s\n", stamp, who, msg.Content)
	}
}
