package cli

import (
	"context"
	"fmt"
)

// Notifications prints the notification list, newest first, and marks
// everything read, mirroring what opening the notification panel does.
func (a *App) Notifications(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}

	if err := a.notifications.Load(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load notifications: %v\n", err)
		return err
	}

	items := a.notifications.Notifications()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}

	unread := a.notifications.UnreadCount()
	for i := len(items) - 1; i >= 0; i-- {
		marker := " "
		if !items[i].IsRead {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s\n", marker, items[i].Message)
	}

	if unread > 0 {
		if err := a.notifications.MarkAllRead(ctx); err != nil {
			fmt.Fprintf(a.out, "Could not mark notifications read: %v\n", err)
		}
	}
	return nil
}
