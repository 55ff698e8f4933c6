package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/goccy/go-json"

	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// Coordinator exchanges the server-held refresh cookie for a fresh
// access/CSRF pair and keeps the credential store consistent.
//
// Concurrent callers are coalesced: while one refresh is on the wire, later
// callers wait for its outcome instead of issuing their own call. On any
// failure the store is cleared as a pair; callers must treat that as "not
// authenticated", not as a transient error to retry.
type Coordinator struct {
	baseURL string
	client  *http.Client
	store   *auth.Store
	log     logging.Logger

	mu       sync.Mutex
	inflight *refreshCall
}

type refreshCall struct {
	done   chan struct{}
	tokens auth.Tokens
	err    error
}

// NewCoordinator builds a refresh coordinator. The http.Client must share
// its cookie jar with the gateway so the refresh cookie set at login is
// presented here.
func NewCoordinator(baseURL string, client *http.Client, store *auth.Store, log logging.Logger) *Coordinator {
	return &Coordinator{
		baseURL: baseURL,
		client:  client,
		store:   store,
		log:     log.With("component", "refresh"),
	}
}

// Refresh returns a valid token pair or an error meaning "session is gone".
func (c *Coordinator) Refresh(ctx context.Context) (auth.Tokens, error) {
	c.mu.Lock()
	if call := c.inflight; call != nil {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.tokens, call.err
		case <-ctx.Done():
			return auth.Tokens{}, ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.mu.Unlock()

	call.tokens, call.err = c.refresh(ctx)

	c.mu.Lock()
	c.inflight = nil
	c.mu.Unlock()
	close(call.done)

	return call.tokens, call.err
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	CsrfToken   string `json:"csrfToken"`
}

func (c *Coordinator) refresh(ctx context.Context) (auth.Tokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		c.store.Clear()
		return auth.Tokens{}, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.store.Clear()
		return auth.Tokens{}, wrapTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.store.Clear()
		return auth.Tokens{}, wrapTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.store.Clear()
		c.log.Warn(ctx, "refresh rejected", "status", resp.StatusCode)
		return auth.Tokens{}, normalizeError(resp.StatusCode, body)
	}

	var rr refreshResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		c.store.Clear()
		return auth.Tokens{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if rr.AccessToken == "" || rr.CsrfToken == "" {
		c.store.Clear()
		return auth.Tokens{}, fmt.Errorf("refresh response missing tokens: %w", ErrSessionExpired)
	}

	tokens := auth.Tokens{Access: rr.AccessToken, CSRF: rr.CsrfToken}
	c.store.Set(tokens)
	c.log.Debug(ctx, "tokens refreshed")
	return tokens, nil
}
