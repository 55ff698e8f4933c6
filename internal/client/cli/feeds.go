package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/matchy-app/matchy-client/internal/client/feed"
)

// Feeds runs the swipe loop: show the top card, ask for a verdict, repeat
// until the deck is exhausted or the user stops.
func (a *App) Feeds(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}

	if err := a.deck.LoadInitial(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load feed: %v\n", err)
		return err
	}

	for {
		card, ok := a.deck.Top()
		if !ok {
			fmt.Fprintln(a.out, a.deck.Message())
			return nil
		}

		fmt.Fprintf(a.out, "\n%s, %d\n", card.FullName(), card.Age(time.Now()))
		if card.ShortBio != "" {
			fmt.Fprintln(a.out, card.ShortBio)
		}
		if card.Address.City != "" {
			fmt.Fprintf(a.out, "%s, %s\n", card.Address.City, card.Address.Country)
		}

		answer, err := GetSimpleText(a.reader, "Like? (y)es / (n)o / (s)top", a.out)
		if err != nil {
			return err
		}

		var verdict feed.Verdict
		switch answer {
		case "y", "yes":
			verdict = feed.VerdictLike
		case "n", "no":
			verdict = feed.VerdictDislike
		case "s", "stop":
			return nil
		default:
			fmt.Fprintln(a.out, "Please answer y, n or s")
			continue
		}

		if err := a.deck.Decide(ctx, card.ID, verdict); err != nil {
			fmt.Fprintf(a.out, "Could not record decision: %v\n", err)
		}
	}
}
