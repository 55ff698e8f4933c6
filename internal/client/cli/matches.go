package cli

import (
	"context"
	"fmt"
	"strings"
)

// Matches lists the match inbox, optionally filtered by a search term.
func (a *App) Matches(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}

	search := strings.Join(args, " ")
	if err := a.matches.Load(ctx, search); err != nil {
		fmt.Fprintf(a.out, "Could not load matches: %v\n", err)
		return err
	}

	list := a.matches.Matches()
	if len(list) == 0 {
		if search != "" {
			fmt.Fprintf(a.out, "No matches found for %q\n", search)
		} else {
			fmt.Fprintln(a.out, "No matches yet, keep swiping!")
		}
		return nil
	}

	for _, m := range list {
		other := m.Other(a.userID)
		fmt.Fprintf(a.out, "%s  %s\n", m.ID, other.FullName())
	}
	if a.matches.HasMore() {
		fmt.Fprintln(a.out, "(more pages available)")
	}
	return nil
}
