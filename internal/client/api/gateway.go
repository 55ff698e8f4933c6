// Package api implements the authenticated request gateway and the token
// refresh coordinator for the Matchy backend.
//
// Every privileged HTTP call flows through Gateway.Do: it attaches the
// bearer access token, the CSRF header on mutating methods, and on a 401/403
// performs one coordinated refresh followed by exactly one replay of the
// original request. Backend error bodies are normalized at this boundary;
// raw transport errors never reach view code.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// Refresher yields a new token pair when the current one is rejected.
type Refresher interface {
	Refresh(ctx context.Context) (auth.Tokens, error)
}

type Gateway struct {
	baseURL   string
	client    *http.Client
	creds     *auth.Store
	refresher Refresher
	log       logging.Logger
}

func NewGateway(baseURL string, client *http.Client, creds *auth.Store, refresher Refresher, log logging.Logger) *Gateway {
	return &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		creds:     creds,
		refresher: refresher,
		log:       log.With("component", "gateway"),
	}
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string

	// Body is JSON-encoded when RawBody is nil.
	Body any

	// RawBody is sent verbatim (multipart uploads); ContentType is required
	// alongside it and suppresses the JSON content-type header.
	RawBody     []byte
	ContentType string

	// Anonymous requests (login, signup) may run without a held session
	// and never trigger a refresh.
	Anonymous bool
}

// replayState tracks the refresh-and-replay progression for a single call.
// The marker is local to the call: concurrent requests each carry their own.
type replayState int

const (
	replayPending replayState = iota
	replayRetrying
	replayDone
)

// Do executes the request and decodes a 2xx JSON body into out (when out is
// non-nil). A 401/403 on the first attempt triggers one refresh and one
// replay; a second rejection surfaces ErrSessionExpired.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	tokens, held := g.creds.Get()
	if !held && !req.Anonymous {
		return fmt.Errorf("no session: %w", ErrUnauthorized)
	}

	payload, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}

	state := replayPending
	for {
		status, body, err := g.send(ctx, req.Method, req.Path, payload, contentType, tokens)
		if err != nil {
			return err
		}

		if (status == http.StatusUnauthorized || status == http.StatusForbidden) && !req.Anonymous {
			switch state {
			case replayPending:
				state = replayRetrying
				g.log.Debug(ctx, "request rejected, refreshing", "method", req.Method, "path", req.Path, "status", status)
				tokens, err = g.refresher.Refresh(ctx)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrSessionExpired, err)
				}
				continue
			default:
				state = replayDone
				return fmt.Errorf("replay rejected: %w", ErrSessionExpired)
			}
		}

		if status >= http.StatusBadRequest {
			return normalizeError(status, body)
		}

		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
		}
		return nil
	}
}

// Get issues an authenticated GET and decodes the response into out.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

// Post issues an authenticated JSON POST.
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Patch issues an authenticated JSON PATCH.
func (g *Gateway) Patch(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Upload issues an authenticated request with a prebuilt body, typically
// multipart form data. The JSON content-type header is suppressed.
func (g *Gateway) Upload(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	return g.Do(ctx, Request{Method: method, Path: path, RawBody: body, ContentType: contentType}, out)
}

func encodeBody(req Request) ([]byte, string, error) {
	if req.RawBody != nil {
		if req.ContentType == "" {
			return nil, "", fmt.Errorf("raw body for %s %s requires a content type", req.Method, req.Path)
		}
		return req.RawBody, req.ContentType, nil
	}
	if req.Body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
	}
	return b, "application/json", nil
}

// send performs one HTTP round trip and drains the body so the call can be
// replayed without holding open connections.
func (g *Gateway) send(ctx context.Context, method, path string, payload []byte, contentType string, tokens auth.Tokens) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if tokens.Access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+tokens.Access)
	}
	if tokens.CSRF != "" && mutating(method) {
		httpReq.Header.Set("x-csrf-token", tokens.CSRF)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return 0, nil, wrapTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, wrapTransport(err)
	}
	return resp.StatusCode, body, nil
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
