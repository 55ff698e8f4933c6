package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/matchy-app/matchy-client/internal/flagx"
	"github.com/matchy-app/matchy-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be specified either as strings like "300ms"
// or as integer nanoseconds. Zero values mean "not set" and leave the
// corresponding Config field untouched.
type JsonConfig struct {
	BackendURL        string         `json:"backend_url"`
	SocketURL         string         `json:"socket_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	ChatSendTimeout   timex.Duration `json:"chat_send_timeout"`
	SearchDebounce    timex.Duration `json:"search_debounce"`
	FeedLowWater      int            `json:"feed_low_water"`
	ReconnectAttempts uint64         `json:"reconnect_attempts"`
	ReconnectDelay    timex.Duration `json:"reconnect_delay"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags(); when no
// path is given the function is a no-op. Read or unmarshal errors panic,
// matching the strictness of flag parsing.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendURL != "" {
		cfg.BackendURL = jc.BackendURL
	}
	if jc.SocketURL != "" {
		cfg.SocketURL = jc.SocketURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ChatSendTimeout.Duration != 0 {
		cfg.ChatSendTimeout = time.Duration(jc.ChatSendTimeout.Duration)
	}
	if jc.SearchDebounce.Duration != 0 {
		cfg.SearchDebounce = time.Duration(jc.SearchDebounce.Duration)
	}
	if jc.FeedLowWater != 0 {
		cfg.FeedLowWater = jc.FeedLowWater
	}
	if jc.ReconnectAttempts != 0 {
		cfg.ReconnectAttempts = jc.ReconnectAttempts
	}
	if jc.ReconnectDelay.Duration != 0 {
		cfg.ReconnectDelay = time.Duration(jc.ReconnectDelay.Duration)
	}
}
