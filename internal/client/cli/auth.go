package cli

import (
	"context"
	"fmt"

	"github.com/matchy-app/matchy-client/internal/client/models"
)

// Login prompts for credentials, opens the session and connects the
// realtime channel.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	userID, err := a.auth.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}
	a.userID = userID
	fmt.Fprintln(a.out, "Login successful")

	if err := a.socket.Connect(ctx, userID); err != nil {
		// The session is usable without realtime; chat commands will refuse.
		fmt.Fprintf(a.out, "Realtime channel unavailable: %v\n", err)
	}
	return nil
}

// Register walks through the signup form and creates an account. The user
// logs in separately afterwards.
func (a *App) Register(ctx context.Context) error {
	dto := models.CreateUserDTO{Status: models.UserStatusActive}

	prompts := []struct {
		label string
		dest  *string
	}{
		{"First name", &dto.FirstName},
		{"Last name", &dto.LastName},
		{"Email", &dto.Email},
		{"Birthday (YYYY-MM-DD)", &dto.Birthday},
		{"Short bio", &dto.ShortBio},
		{"City", &dto.Address.City},
		{"Province", &dto.Address.Province},
		{"Country", &dto.Address.Country},
	}
	for _, p := range prompts {
		value, err := GetSimpleText(a.reader, p.label, a.out)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
		*p.dest = value
	}

	gender, err := GetSimpleText(a.reader, "Gender (Male/Female/Non Binary/Other)", a.out)
	if err != nil {
		return err
	}
	dto.Gender = models.Gender(gender)

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	dto.Password = password

	created, err := a.auth.Register(ctx, dto)
	if err != nil {
		fmt.Fprintf(a.out, "Registration unsuccessful: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s, you can log in now\n", created.Email)
	return nil
}

// Logout tears the realtime channel down and revokes the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	a.socket.Disconnect(a.userID)
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout finished with error: %v\n", err)
	} else {
		fmt.Fprintln(a.out, "Logged out")
	}
	a.userID = ""
	return nil
}
