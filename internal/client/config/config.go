package config

import "time"

// Config holds runtime settings for the Matchy CLI.
//
// Units: all intervals are time.Duration values.
type Config struct {
	BackendURL        string        `env:"MATCHY_BACKEND_URL"`
	SocketURL         string        `env:"MATCHY_SOCKET_URL"`
	RequestTimeout    time.Duration `env:"MATCHY_REQUEST_TIMEOUT"`
	ChatSendTimeout   time.Duration `env:"MATCHY_CHAT_SEND_TIMEOUT"`
	SearchDebounce    time.Duration `env:"MATCHY_SEARCH_DEBOUNCE"`
	FeedLowWater      int           `env:"MATCHY_FEED_LOW_WATER"`
	ReconnectAttempts uint64        `env:"MATCHY_RECONNECT_ATTEMPTS"`
	ReconnectDelay    time.Duration `env:"MATCHY_RECONNECT_DELAY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:3000/api"
	c.SocketURL = "ws://127.0.0.1:3000/ws"
	c.RequestTimeout = 30 * time.Second
	c.ChatSendTimeout = 10 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.FeedLowWater = 3
	c.ReconnectAttempts = 5
	c.ReconnectDelay = time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
