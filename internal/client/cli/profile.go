package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/client/services"
)

// Profile shows or edits the logged-in user's profile.
//
//	profile                 show the profile
//	profile bio <text>      update the short bio
//	profile photo <path>    upload a new primary photo
//	profile albums <paths>  upload gallery entries
func (a *App) Profile(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}

	if len(args) == 0 {
		return a.showProfile(ctx)
	}

	switch args[0] {
	case "bio":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: profile bio <text>")
			return nil
		}
		return a.updateBio(ctx, strings.Join(args[1:], " "))
	case "photo":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "Usage: profile photo <path>")
			return nil
		}
		return a.uploadPhoto(ctx, args[1])
	case "albums":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: profile albums <path> [path...]")
			return nil
		}
		return a.uploadAlbums(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, "Usage: profile [bio <text> | photo <path> | albums <paths>]")
		return nil
	}
}

func (a *App) showProfile(ctx context.Context) error {
	me, err := a.users.Me(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load profile: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "%s, %d (%s)\n", me.FullName(), me.Age(time.Now()), me.Gender)
	fmt.Fprintf(a.out, "%s, %s\n", me.Address.City, me.Address.Country)
	if me.ShortBio != "" {
		fmt.Fprintln(a.out, me.ShortBio)
	}
	if len(me.Interests) > 0 {
		fmt.Fprintf(a.out, "Interests: %s\n", strings.Join(me.Interests, ", "))
	}
	fmt.Fprintf(a.out, "Albums: %d\n", len(me.Albums))
	return nil
}

func (a *App) updateBio(ctx context.Context, bio string) error {
	me, err := a.users.Me(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load profile: %v\n", err)
		return err
	}

	dto := models.UpdateUserDTO{
		FirstName:   me.FirstName,
		MiddleName:  me.MiddleName,
		LastName:    me.LastName,
		Email:       me.Email,
		Birthday:    me.Birthday,
		Gender:      me.Gender,
		ShortBio:    bio,
		Address:     me.Address,
		Interests:   me.Interests,
		Preferences: me.Preferences,
		Status:      me.Status,
	}
	if _, err := a.users.Update(ctx, dto); err != nil {
		fmt.Fprintf(a.out, "Could not update bio: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Bio updated")
	return nil
}

func (a *App) uploadPhoto(ctx context.Context, path string) error {
	upload, err := readUpload(path)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	if _, err := a.users.UploadPhoto(ctx, upload); err != nil {
		fmt.Fprintf(a.out, "Could not upload photo: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Photo updated")
	return nil
}

func (a *App) uploadAlbums(ctx context.Context, paths []string) error {
	uploads := make([]services.Upload, 0, len(paths))
	for _, p := range paths {
		u, err := readUpload(p)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
		uploads = append(uploads, u)
	}
	if _, err := a.users.UploadAlbums(ctx, uploads); err != nil {
		fmt.Fprintf(a.out, "Could not upload albums: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "%d album entries uploaded\n", len(uploads))
	return nil
}

func readUpload(path string) (services.Upload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return services.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return services.Upload{Filename: filepath.Base(path), Content: content}, nil
}
