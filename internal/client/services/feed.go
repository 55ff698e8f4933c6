package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/feed"
	"github.com/matchy-app/matchy-client/internal/client/models"
)

// FeedAPI adapts the backend's feed and decision endpoints to the deck
// engine's client surface.
type FeedAPI struct {
	gw    *api.Gateway
	store *auth.Store
}

func NewFeedAPI(gw *api.Gateway, store *auth.Store) *FeedAPI {
	return &FeedAPI{gw: gw, store: store}
}

type feedResponse struct {
	Feeds   []models.User `json:"feeds"`
	Message string        `json:"message"`
	Total   int           `json:"total"`
}

func (f *FeedAPI) Feed(ctx context.Context) (feed.Page, error) {
	userID, ok := f.store.UserID()
	if !ok {
		return feed.Page{}, fmt.Errorf("feed: %w", api.ErrUnauthorized)
	}

	var resp feedResponse
	if err := f.gw.Get(ctx, "/feeds/"+userID, &resp); err != nil {
		return feed.Page{}, err
	}
	return feed.Page{Profiles: resp.Feeds, Message: resp.Message, Total: resp.Total}, nil
}

func (f *FeedAPI) Like(ctx context.Context, profileID string) error {
	userID, ok := f.store.UserID()
	if !ok {
		return fmt.Errorf("like: %w", api.ErrUnauthorized)
	}
	dto := models.CreateLikeDTO{User: userID, LikedUser: profileID}
	return f.gw.Do(ctx, api.Request{Method: http.MethodPost, Path: "/likes", Body: dto}, nil)
}

func (f *FeedAPI) Dislike(ctx context.Context, profileID string) error {
	userID, ok := f.store.UserID()
	if !ok {
		return fmt.Errorf("dislike: %w", api.ErrUnauthorized)
	}
	dto := models.CreateDislikeDTO{User: userID, DislikedUser: profileID}
	return f.gw.Do(ctx, api.Request{Method: http.MethodPost, Path: "/dislikes", Body: dto}, nil)
}
