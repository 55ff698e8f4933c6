package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/client/page"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// DefaultSearchDebounce is how long the match list waits after the last
// keystroke before hitting the search endpoint.
const DefaultSearchDebounce = 300 * time.Millisecond

// MatchService serves the paginated match list with name search. Each page
// replaces the whole list; search input is debounced so only the settled
// term reaches the backend.
type MatchService struct {
	gw       *api.Gateway
	store    *auth.Store
	log      logging.Logger
	fetcher  *page.Fetcher[models.Match]
	debounce *page.Debouncer
}

func NewMatchService(gw *api.Gateway, store *auth.Store, searchDebounce time.Duration, log logging.Logger) *MatchService {
	if searchDebounce <= 0 {
		searchDebounce = DefaultSearchDebounce
	}
	s := &MatchService{
		gw:       gw,
		store:    store,
		log:      log.With("component", "matches"),
		debounce: page.NewDebouncer(searchDebounce),
	}
	s.fetcher = page.NewFetcher(s.fetchPage, func(m models.Match) string { return m.ID }, page.MergeReplace)
	return s
}

type matchPageResponse struct {
	Matches    []models.Match `json:"matches"`
	TotalPages int            `json:"totalPages"`
}

func (s *MatchService) fetchPage(ctx context.Context, search string, n int) (page.Result[models.Match], error) {
	userID, ok := s.store.UserID()
	if !ok {
		return page.Result[models.Match]{}, fmt.Errorf("matches: %w", api.ErrUnauthorized)
	}

	path := "/matches/" + userID + "?page=" + strconv.Itoa(n)
	if search != "" {
		path += "&search=" + url.QueryEscape(search)
	}

	var resp matchPageResponse
	if err := s.gw.Get(ctx, path, &resp); err != nil {
		return page.Result[models.Match]{}, err
	}
	return page.Result[models.Match]{Items: resp.Matches, TotalPages: resp.TotalPages}, nil
}

// Load fetches the first page for the given search term, replacing whatever
// was shown before.
func (s *MatchService) Load(ctx context.Context, search string) error {
	s.fetcher.Reset(search)
	_, err := s.fetcher.FetchPage(ctx, 1)
	return err
}

// LoadMore advances to the next page.
func (s *MatchService) LoadMore(ctx context.Context) error {
	_, err := s.fetcher.FetchNext(ctx)
	return err
}

// Search schedules a debounced reload for the term. A burst of calls
// collapses into one request for the final term; done receives its outcome.
func (s *MatchService) Search(ctx context.Context, term string, done func(error)) {
	s.debounce.Trigger(func() {
		err := s.Load(ctx, term)
		if err != nil {
			s.log.Warn(ctx, "match search failed", "term", term, "error", err)
		}
		if done != nil {
			done(err)
		}
	})
}

func (s *MatchService) Matches() []models.Match {
	return s.fetcher.Items()
}

func (s *MatchService) HasMore() bool {
	return s.fetcher.HasMore()
}

func (s *MatchService) Close() {
	s.debounce.Stop()
}
