package models

import "time"

// Notification is a server-generated alert (new match, new like, warnings).
type Notification struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
