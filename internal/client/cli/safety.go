package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matchy-app/matchy-client/internal/client/models"
)

// Report walks through the report form for the given user.
func (a *App) Report(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: report <userId>")
		return nil
	}
	reportedUser := args[0]

	fmt.Fprintln(a.out, "Why are you reporting this user?")
	for i, reason := range models.ReportReasons {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, reason)
	}

	choice, err := GetSimpleText(a.reader, "Enter a number", a.out)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(models.ReportReasons) {
		fmt.Fprintln(a.out, "Invalid choice")
		return nil
	}
	reason := models.ReportReasons[n-1]

	description, err := GetSimpleText(a.reader, "Describe what happened (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.safety.Report(ctx, reportedUser, reason, description); err != nil {
		fmt.Fprintf(a.out, "Could not file report: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Report filed, our team will review it")
	return nil
}

// Block stops all contact with the given user.
func (a *App) Block(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: block <userId>")
		return nil
	}

	if err := a.safety.Block(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Could not block user: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "User blocked")
	return nil
}
