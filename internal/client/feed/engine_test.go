package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeClient struct {
	mu       sync.Mutex
	pages    []Page
	feedErr  error
	likeErr  error
	feeds    int
	likes    []string
	dislikes []string
}

func (f *fakeClient) Feed(ctx context.Context) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds++
	if f.feedErr != nil {
		return Page{}, f.feedErr
	}
	if len(f.pages) == 0 {
		return Page{}, nil
	}
	p := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	return p, nil
}

func (f *fakeClient) Like(ctx context.Context, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeErr != nil {
		return f.likeErr
	}
	f.likes = append(f.likes, profileID)
	return nil
}

func (f *fakeClient) Dislike(ctx context.Context, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dislikes = append(f.dislikes, profileID)
	return nil
}

func (f *fakeClient) feedCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feeds
}

func profiles(ids ...string) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.User{ID: id})
	}
	return out
}

func newTestEngine(c Client) *Engine {
	return NewEngine(c, Options{LowWater: 1, ExitDelay: 0}, testLogger())
}

func TestLoadInitialSeedsDeckInServerOrder(t *testing.T) {
	c := &fakeClient{pages: []Page{{Profiles: profiles("a", "b", "c"), Total: 10}}}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	assert.Equal(t, 3, e.Size())
	assert.True(t, e.HasMore())

	top, ok := e.Top()
	require.True(t, ok)
	assert.Equal(t, "a", top.ID)
}

func TestLoadInitialEmptyDeckShowsExhaustionMessage(t *testing.T) {
	c := &fakeClient{pages: []Page{{Total: 0}}}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	assert.True(t, e.Exhausted())
	assert.Equal(t, DefaultExhaustedMessage, e.Message())
}

func TestDecideLikeRemovesTopCard(t *testing.T) {
	c := &fakeClient{pages: []Page{{Profiles: profiles("a", "b", "c"), Total: 3}}}
	e := NewEngine(c, Options{LowWater: 1, ExitDelay: 0}, testLogger())

	require.NoError(t, e.LoadInitial(context.Background()))
	require.NoError(t, e.Decide(context.Background(), "a", VerdictLike))

	assert.Equal(t, []string{"a"}, c.likes)
	top, ok := e.Top()
	require.True(t, ok)
	assert.Equal(t, "b", top.ID)
}

func TestDecideRejectsNonTopCard(t *testing.T) {
	c := &fakeClient{pages: []Page{{Profiles: profiles("a", "b"), Total: 2}}}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	err := e.Decide(context.Background(), "b", VerdictLike)
	assert.ErrorIs(t, err, ErrNotTopOfDeck)
	assert.Equal(t, 2, e.Size())
}

func TestDecideFailureRestoresCard(t *testing.T) {
	c := &fakeClient{
		pages:   []Page{{Profiles: profiles("a", "b"), Total: 2}},
		likeErr: errors.New("backend down"),
	}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	err := e.Decide(context.Background(), "a", VerdictLike)
	require.Error(t, err)

	top, ok := e.Top()
	require.True(t, ok)
	assert.Equal(t, "a", top.ID)
	assert.False(t, e.Deciding())

	// The next decision on the same card goes through.
	c.mu.Lock()
	c.likeErr = nil
	c.mu.Unlock()
	require.NoError(t, e.Decide(context.Background(), "a", VerdictLike))
}

func TestDecideRejectsConcurrentDecision(t *testing.T) {
	block := make(chan struct{})
	c := &blockingClient{
		release: block,
		started: make(chan struct{}),
		page:    Page{Profiles: profiles("a", "b"), Total: 2},
	}
	e := newTestEngine(c)
	require.NoError(t, e.LoadInitial(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- e.Decide(context.Background(), "a", VerdictLike)
	}()

	<-c.started
	err := e.Decide(context.Background(), "a", VerdictDislike)
	assert.ErrorIs(t, err, ErrDecisionInFlight)

	close(block)
	require.NoError(t, <-done)
}

type blockingClient struct {
	page    Page
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (b *blockingClient) Feed(ctx context.Context) (Page, error) { return b.page, nil }

func (b *blockingClient) Like(ctx context.Context, profileID string) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil
}

func (b *blockingClient) Dislike(ctx context.Context, profileID string) error { return nil }

func TestPrefetchFiltersAlreadySeenProfiles(t *testing.T) {
	c := &fakeClient{pages: []Page{
		{Profiles: profiles("a", "b"), Total: 4},
		{Profiles: profiles("b", "c", "a", "d"), Total: 2},
	}}
	e := NewEngine(c, Options{LowWater: 1, ExitDelay: 0}, testLogger())

	require.NoError(t, e.LoadInitial(context.Background()))
	require.NoError(t, e.Prefetch(context.Background()))

	// No profile id appears twice, even when the server repeats candidates.
	ids := map[string]int{}
	e.mu.Lock()
	for _, p := range e.deck {
		ids[p.ID]++
	}
	e.mu.Unlock()
	for id, n := range ids {
		assert.Equal(t, 1, n, "profile %s dealt more than once", id)
	}
	assert.Equal(t, 4, e.Size())
}

func TestDecidedProfileNeverReturns(t *testing.T) {
	c := &fakeClient{pages: []Page{
		{Profiles: profiles("a", "b"), Total: 3},
		{Profiles: profiles("a", "c"), Total: 1},
	}}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	require.NoError(t, e.Decide(context.Background(), "a", VerdictDislike))
	require.NoError(t, e.Prefetch(context.Background()))

	e.mu.Lock()
	for _, p := range e.deck {
		assert.NotEqual(t, "a", p.ID)
	}
	e.mu.Unlock()
}

func TestExhaustionAfterDecidingFullInitialPage(t *testing.T) {
	c := &fakeClient{pages: []Page{{Profiles: profiles("a", "b"), Total: 2}}}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	assert.False(t, e.HasMore())

	require.NoError(t, e.Decide(context.Background(), "a", VerdictLike))
	require.NoError(t, e.Decide(context.Background(), "b", VerdictDislike))

	assert.True(t, e.Exhausted())
	assert.Equal(t, DefaultExhaustedMessage, e.Message())
	assert.Equal(t, 1, c.feedCalls(), "no prefetch once the server reported exhaustion")
}

func TestEmptyPrefetchPageStopsFetching(t *testing.T) {
	c := &fakeClient{pages: []Page{
		{Profiles: profiles("a"), Total: 5},
		{Total: 0, Message: "Check back later"},
	}}
	e := newTestEngine(c)

	require.NoError(t, e.LoadInitial(context.Background()))
	require.NoError(t, e.Prefetch(context.Background()))

	assert.False(t, e.HasMore())
	assert.Equal(t, "Check back later", e.Message())

	// Further prefetches are no-ops.
	require.NoError(t, e.Prefetch(context.Background()))
	assert.Equal(t, 2, c.feedCalls())
}

func TestPrefetchFailureStopsFurtherFetching(t *testing.T) {
	c := &fakeClient{pages: []Page{{Profiles: profiles("a"), Total: 5}}}
	e := newTestEngine(c)
	require.NoError(t, e.LoadInitial(context.Background()))

	c.mu.Lock()
	c.feedErr = errors.New("boom")
	c.mu.Unlock()

	require.Error(t, e.Prefetch(context.Background()))
	assert.False(t, e.HasMore())
	assert.Equal(t, 1, e.Size())
}
