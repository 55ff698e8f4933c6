// Package auth holds the in-memory session credentials for the client.
//
// The store is the single source of truth for "am I authenticated". It keeps
// the short-lived access token together with the CSRF token; the refresh
// token never enters application memory (the backend holds it in an HTTP-only
// cookie managed by the request layer's cookie jar).
package auth

import (
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is the credential pair attached to privileged requests.
// Access and CSRF always travel together: they are set and cleared as a
// pair, never independently.
type Tokens struct {
	Access string
	CSRF   string
}

// Store is a process-wide credential holder safe for concurrent use.
// Reads are synchronous; no I/O happens behind Get.
type Store struct {
	mu     sync.RWMutex
	tokens Tokens
	valid  bool
}

func NewStore() *Store {
	return &Store{}
}

// Get returns the current token pair and whether a session is held.
func (s *Store) Get() (Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.valid
}

// Set replaces the token pair atomically. Empty tokens are rejected as a
// whole pair: both must be present for the store to consider itself
// authenticated.
func (s *Store) Set(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Access == "" || t.CSRF == "" {
		s.tokens = Tokens{}
		s.valid = false
		return
	}
	s.tokens = t
	s.valid = true
}

// Clear removes both tokens.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.valid = false
}

// UserID extracts the subject claim from the held access token.
// The token is parsed without signature verification: the client has no
// signing key, and the value is only used to address user-scoped endpoints.
// Returns false when no session is held or the token is malformed.
func (s *Store) UserID() (string, bool) {
	tokens, ok := s.Get()
	if !ok {
		return "", false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokens.Access, claims); err != nil {
		return "", false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
