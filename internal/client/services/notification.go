package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/client/page"
	"github.com/matchy-app/matchy-client/internal/client/realtime"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// NotificationService keeps the notification list in chronological order,
// oldest first. Older pages stack above the existing items; live pushes land
// at the newest end. Views render the slice reversed to show newest on top.
type NotificationService struct {
	gw      *api.Gateway
	store   *auth.Store
	log     logging.Logger
	fetcher *page.Fetcher[models.Notification]
}

func NewNotificationService(gw *api.Gateway, store *auth.Store, socket Socket, log logging.Logger) *NotificationService {
	s := &NotificationService{
		gw:    gw,
		store: store,
		log:   log.With("component", "notifications"),
	}
	s.fetcher = page.NewFetcher(s.fetchPage, func(n models.Notification) string { return n.ID }, page.MergePrepend)
	socket.On(realtime.EventReceiveNotification, s.onReceive)
	return s
}

type notificationPageResponse struct {
	Notifications []models.Notification `json:"notifications"`
	TotalPages    int                   `json:"totalPages"`
}

func (s *NotificationService) fetchPage(ctx context.Context, _ string, n int) (page.Result[models.Notification], error) {
	userID, ok := s.store.UserID()
	if !ok {
		return page.Result[models.Notification]{}, fmt.Errorf("notifications: %w", api.ErrUnauthorized)
	}

	var resp notificationPageResponse
	err := s.gw.Get(ctx, "/notifications/"+userID+"?page="+strconv.Itoa(n), &resp)
	if err != nil {
		return page.Result[models.Notification]{}, err
	}
	return page.Result[models.Notification]{Items: resp.Notifications, TotalPages: resp.TotalPages}, nil
}

func (s *NotificationService) Load(ctx context.Context) error {
	s.fetcher.Reset("")
	_, err := s.fetcher.FetchPage(ctx, 1)
	return err
}

func (s *NotificationService) LoadMore(ctx context.Context) error {
	_, err := s.fetcher.FetchNext(ctx)
	return err
}

func (s *NotificationService) Notifications() []models.Notification {
	return s.fetcher.Items()
}

func (s *NotificationService) HasMore() bool {
	return s.fetcher.HasMore()
}

// UnreadCount counts loaded notifications not yet marked read.
func (s *NotificationService) UnreadCount() int {
	count := 0
	for _, n := range s.fetcher.Items() {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkAllRead flips every notification to read, server-side first.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	userID, ok := s.store.UserID()
	if !ok {
		return fmt.Errorf("notifications: %w", api.ErrUnauthorized)
	}
	if err := s.gw.Patch(ctx, "/notifications/"+userID, nil, nil); err != nil {
		return err
	}
	s.fetcher.Each(func(n models.Notification) models.Notification {
		n.IsRead = true
		return n
	})
	return nil
}

type receiveNotificationEvent struct {
	realtime.ErrorEnvelope
	Notification models.Notification `json:"notification"`
}

func (s *NotificationService) onReceive(data json.RawMessage) {
	var ev receiveNotificationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn(context.Background(), "unreadable receiveNotification payload", "error", err)
		return
	}
	if ev.IsError {
		s.log.Warn(context.Background(), "notification push failed", "error", ev.ErrorMessage)
		return
	}
	s.fetcher.Push(ev.Notification)
}
