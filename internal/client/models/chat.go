package models

import "time"

type ChatType string

const (
	ChatTypeText    ChatType = "text"
	ChatTypeImage   ChatType = "image"
	ChatTypeGif     ChatType = "gif"
	ChatTypeSticker ChatType = "sticker"
)

// ChatStatus moves strictly forward: Sending -> Sent -> Delivered -> Seen.
type ChatStatus string

const (
	ChatStatusSending   ChatStatus = "Sending"
	ChatStatusSent      ChatStatus = "Sent"
	ChatStatusDelivered ChatStatus = "Delivered"
	ChatStatusSeen      ChatStatus = "Seen"
)

// Chat is one message in a conversation. A message created locally carries a
// temporary id and status Sending until the server echoes the persisted copy.
type Chat struct {
	ID           string     `json:"_id"`
	Match        string     `json:"match"`
	SenderUser   string     `json:"senderUser"`
	ReceiverUser string     `json:"receiverUser"`
	Content      string     `json:"content"`
	Type         ChatType   `json:"type"`
	Status       ChatStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ChatPayload is the outbound sendChat event body.
type ChatPayload struct {
	Match        string     `json:"match"`
	SenderUser   string     `json:"senderUser"`
	ReceiverUser string     `json:"receiverUser"`
	Content      string     `json:"content"`
	Type         ChatType   `json:"type"`
	Status       ChatStatus `json:"status"`
}

// Match pairs two users once both have liked each other. The backend
// populates both user documents on the match-list endpoint.
type Match struct {
	ID          string    `json:"_id"`
	User        User      `json:"user"`
	MatchedUser User      `json:"matchedUser"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Other returns the counterpart of userID in the match.
func (m Match) Other(userID string) User {
	if m.User.ID == userID {
		return m.MatchedUser
	}
	return m.User
}
