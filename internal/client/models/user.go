// Package models defines the client-side view of Matchy backend resources.
// Field names follow the backend's JSON contract exactly; the client never
// produces these shapes on its own authority.
package models

import "time"

type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non Binary"
	GenderOther     Gender = "Other"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "Active"
	UserStatusPaused UserStatus = "Paused"
	UserStatusBanned UserStatus = "Banned"
)

type UserRole string

const (
	UserRoleUser  UserRole = "User"
	UserRoleAdmin UserRole = "Admin"
)

type AlbumType string

const (
	AlbumTypeImage AlbumType = "Image"
	AlbumTypeVideo AlbumType = "Video"
)

// Photo is the user's primary profile picture as stored by the backend's
// media service.
type Photo struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Album is one gallery entry (image or video) shown on a profile card.
type Album struct {
	ID        string    `json:"id"`
	PublicID  string    `json:"public_id"`
	SecureURL string    `json:"secure_url"`
	Type      AlbumType `json:"type"`
	SortOrder int       `json:"sortOrder"`
}

type Address struct {
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city"`
	Province    string    `json:"province"`
	Country     string    `json:"country"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// Preferences controls which profiles the feed serves to this user.
type Preferences struct {
	GenderPreference []Gender `json:"genderPreference"`
	MinAge           int      `json:"minAge"`
	MaxAge           int      `json:"maxAge"`
	MaxDistance      int      `json:"maxDistance"`
}

// User is a full profile as returned by /users/{id} and /feeds/{id}.
type User struct {
	ID           string      `json:"_id"`
	Photo        *Photo      `json:"photo"`
	FirstName    string      `json:"firstName"`
	MiddleName   string      `json:"middleName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	Birthday     string      `json:"birthday"`
	Gender       Gender      `json:"gender"`
	ShortBio     string      `json:"shortBio"`
	Address      Address     `json:"address"`
	Interests    []string    `json:"interests"`
	Preferences  Preferences `json:"preferences"`
	Albums       []Album     `json:"albums"`
	Status       UserStatus  `json:"status"`
	Role         UserRole    `json:"role"`
	WarningCount int         `json:"warningCount"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// FullName joins the non-empty name parts with single spaces.
func (u User) FullName() string {
	name := u.FirstName
	if u.MiddleName != "" {
		name += " " + u.MiddleName
	}
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}

// Age computes the user's age in whole years at the given moment.
// Birthday is the backend's date string (RFC 3339 or plain YYYY-MM-DD);
// an unparseable birthday yields 0.
func (u User) Age(now time.Time) int {
	birth, err := time.Parse(time.RFC3339, u.Birthday)
	if err != nil {
		birth, err = time.Parse("2006-01-02", u.Birthday)
		if err != nil {
			return 0
		}
	}
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// CreateUserDTO is the signup payload for POST /users.
type CreateUserDTO struct {
	FirstName   string      `json:"firstName"`
	MiddleName  string      `json:"middleName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Birthday    string      `json:"birthday"`
	Gender      Gender      `json:"gender"`
	ShortBio    string      `json:"shortBio"`
	Address     Address     `json:"address"`
	Interests   []string    `json:"interests"`
	Preferences Preferences `json:"preferences"`
	Status      UserStatus  `json:"status"`
}

// UpdateUserDTO is the profile-edit payload for PATCH /users/{id}.
// Password is optional; an empty value means "leave unchanged".
type UpdateUserDTO struct {
	FirstName   string      `json:"firstName"`
	MiddleName  string      `json:"middleName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Password    string      `json:"password,omitempty"`
	Birthday    string      `json:"birthday"`
	Gender      Gender      `json:"gender"`
	ShortBio    string      `json:"shortBio"`
	Address     Address     `json:"address"`
	Interests   []string    `json:"interests"`
	Preferences Preferences `json:"preferences"`
	Status      UserStatus  `json:"status"`
}
