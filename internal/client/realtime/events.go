package realtime

import "github.com/goccy/go-json"

// Event names on the realtime channel. Outbound events are emitted by this
// client; inbound events are pushed by the server.
const (
	EventNewUser  = "newUser"  // registration, sent right after transport connect
	EventLogout   = "logout"   // leave notice, sent before teardown
	EventSendChat = "sendChat" // outbound chat message
	EventMarkSeen = "markSeen" // outbound read receipt

	EventReceiveChat         = "receiveChat"
	EventReceiveNotification = "receiveNotification"
)

// envelope is the wire frame: a name plus an opaque payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler consumes one inbound event payload. Handlers run on the read
// goroutine in arrival order; they must not block.
type Handler func(data json.RawMessage)

// ErrorEnvelope is the shared inbound shape for push events that can carry
// an explicit failure instead of a payload.
type ErrorEnvelope struct {
	IsError      bool   `json:"isError"`
	ErrorMessage string `json:"errorMessage"`
}
