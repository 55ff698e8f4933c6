// Package feed implements the swipe deck: an ordered queue of not-yet-decided
// candidate profiles, a seen-set so no profile is shown twice in a session,
// and the like/dislike decision flow with opportunistic prefetching.
package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/logging"
)

type Verdict string

const (
	VerdictLike    Verdict = "like"
	VerdictDislike Verdict = "dislike"
)

var (
	// ErrDecisionInFlight rejects a swipe while the previous one is pending.
	ErrDecisionInFlight = errors.New("decision already in flight")

	// ErrNotTopOfDeck rejects a decision on anything but the current card.
	ErrNotTopOfDeck = errors.New("profile is not the top of the deck")
)

// DefaultExhaustedMessage is shown when the server has nothing left to deal.
const DefaultExhaustedMessage = "No more profiles available"

// DefaultExitDelay matches the card swipe-out animation length.
const DefaultExitDelay = 300 * time.Millisecond

// Page mirrors the GET /feeds/{userId} response.
type Page struct {
	Profiles []models.User
	Message  string
	Total    int
}

// Client is the backend surface the engine drives. Decisions are
// fire-and-forget from the client's view; the server owns match creation.
type Client interface {
	Feed(ctx context.Context) (Page, error)
	Like(ctx context.Context, profileID string) error
	Dislike(ctx context.Context, profileID string) error
}

// Options tunes deck behavior. A zero LowWater means prefetch when fewer
// than 3 cards remain; a zero ExitDelay removes decided cards immediately.
type Options struct {
	LowWater  int
	ExitDelay time.Duration
}

type Engine struct {
	client    Client
	log       logging.Logger
	lowWater  int
	exitDelay time.Duration

	mu          sync.Mutex
	deck        []models.User
	seen        map[string]struct{}
	deciding    bool
	prefetching bool
	hasMore     bool
	message     string
}

func NewEngine(client Client, opts Options, log logging.Logger) *Engine {
	if opts.LowWater <= 0 {
		opts.LowWater = 3
	}
	if opts.ExitDelay < 0 {
		opts.ExitDelay = 0
	}
	return &Engine{
		client:    client,
		log:       log.With("component", "feed"),
		lowWater:  opts.LowWater,
		exitDelay: opts.ExitDelay,
		seen:      make(map[string]struct{}),
	}
}

// LoadInitial seeds the deck from the first server page. Deck order is
// exactly server response order; the engine never re-sorts candidates.
func (e *Engine) LoadInitial(ctx context.Context) error {
	result, err := e.client.Feed(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.deck = nil
	e.seen = make(map[string]struct{})
	for _, p := range result.Profiles {
		if _, dup := e.seen[p.ID]; dup {
			continue
		}
		e.seen[p.ID] = struct{}{}
		e.deck = append(e.deck, p)
	}

	e.hasMore = result.Total > len(e.deck)
	e.message = result.Message
	if len(e.deck) == 0 && e.message == "" {
		e.message = DefaultExhaustedMessage
	}
	return nil
}

// Top returns the current card without consuming it.
func (e *Engine) Top() (models.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.deck) == 0 {
		return models.User{}, false
	}
	return e.deck[0], true
}

// Decide commits a verdict on the top card. On success the card leaves the
// deck after the exit delay and a prefetch kicks in when the deck runs low.
// On failure the card stays where it was and the error is surfaced.
func (e *Engine) Decide(ctx context.Context, profileID string, verdict Verdict) error {
	e.mu.Lock()
	if e.deciding {
		e.mu.Unlock()
		return ErrDecisionInFlight
	}
	if len(e.deck) == 0 || e.deck[0].ID != profileID {
		e.mu.Unlock()
		return ErrNotTopOfDeck
	}
	e.deciding = true
	e.mu.Unlock()

	var err error
	switch verdict {
	case VerdictLike:
		err = e.client.Like(ctx, profileID)
	default:
		err = e.client.Dislike(ctx, profileID)
	}

	e.mu.Lock()
	e.deciding = false
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	if e.exitDelay > 0 {
		select {
		case <-time.After(e.exitDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.mu.Lock()
	if len(e.deck) > 0 && e.deck[0].ID == profileID {
		e.deck = e.deck[1:]
	}
	low := len(e.deck) < e.lowWater && e.hasMore
	if len(e.deck) == 0 && !e.hasMore && e.message == "" {
		e.message = DefaultExhaustedMessage
	}
	e.mu.Unlock()

	if low {
		if err := e.Prefetch(ctx); err != nil {
			e.log.Warn(ctx, "prefetch after decision failed", "error", err)
		}
	}
	return nil
}

// Prefetch appends the next server page, filtering out every profile already
// seen this session. A no-op while a prefetch is running or when the server
// has reported exhaustion.
func (e *Engine) Prefetch(ctx context.Context) error {
	e.mu.Lock()
	if e.prefetching || !e.hasMore {
		e.mu.Unlock()
		return nil
	}
	e.prefetching = true
	e.mu.Unlock()

	result, err := e.client.Feed(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefetching = false

	if err != nil {
		e.hasMore = false
		return err
	}

	if len(result.Profiles) == 0 {
		e.hasMore = false
		e.message = result.Message
		if e.message == "" {
			e.message = DefaultExhaustedMessage
		}
		return nil
	}

	for _, p := range result.Profiles {
		if _, dup := e.seen[p.ID]; dup {
			continue
		}
		e.seen[p.ID] = struct{}{}
		e.deck = append(e.deck, p)
	}
	e.hasMore = result.Total > 0
	return nil
}

// Exhausted reports an empty deck with nothing more to fetch.
func (e *Engine) Exhausted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.deck) == 0 && !e.hasMore
}

// Message returns the server-provided (or default) exhaustion message.
func (e *Engine) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.deck)
}

func (e *Engine) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}

func (e *Engine) Deciding() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deciding
}
