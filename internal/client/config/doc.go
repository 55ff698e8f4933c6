// Package config loads runtime configuration for the Matchy CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. MATCHY_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   base URL of the backend REST API
//	-s string   URL of the realtime websocket endpoint
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "300ms" or integer nanoseconds:
//
//	{
//	  "backend_url": "https://api.matchy.example/api",
//	  "socket_url": "wss://api.matchy.example/ws",
//	  "chat_send_timeout": "10s",
//	  "search_debounce": "300ms",
//	  "reconnect_attempts": 5,
//	  "reconnect_delay": "1s"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings for transports and UX timings
//   - func LoadConfig() *Config       — builds Config by layering all sources
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
