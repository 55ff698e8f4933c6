package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/client/page"
	"github.com/matchy-app/matchy-client/internal/client/realtime"
	"github.com/matchy-app/matchy-client/internal/logging"
)

var (
	// ErrNotConnected means the realtime session is down; chat operations
	// require a live socket.
	ErrNotConnected = errors.New("realtime session is not connected")

	// ErrSendTimeout means the server never echoed the persisted message.
	ErrSendTimeout = errors.New("message send timed out")
)

// DefaultSendTimeout bounds the wait for the server echo of a sent message.
const DefaultSendTimeout = 10 * time.Second

// Socket is the realtime capability chat and notification services need.
type Socket interface {
	Emit(event string, data any) error
	On(event string, h realtime.Handler)
	IsConnected() bool
}

// ChatService manages one open conversation: history pages load over HTTP,
// live messages travel over the socket. Sends are optimistic; a local copy
// with a temporary id and status Sending shows immediately and is swapped
// for the server's persisted copy when the echo arrives.
type ChatService struct {
	gw          *api.Gateway
	store       *auth.Store
	socket      Socket
	log         logging.Logger
	sendTimeout time.Duration

	fetcher *page.Fetcher[models.Chat]

	mu      sync.Mutex
	matchID string
	pending []*pendingSend
}

type pendingSend struct {
	tempID  string
	match   string
	content string
	echo    chan models.Chat
	failed  chan error
}

func NewChatService(gw *api.Gateway, store *auth.Store, socket Socket, sendTimeout time.Duration, log logging.Logger) *ChatService {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	s := &ChatService{
		gw:          gw,
		store:       store,
		socket:      socket,
		log:         log.With("component", "chat"),
		sendTimeout: sendTimeout,
	}
	s.fetcher = page.NewFetcher(s.fetchPage, func(c models.Chat) string { return c.ID }, page.MergePrepend)
	socket.On(realtime.EventReceiveChat, s.onReceiveChat)
	return s
}

type chatPageResponse struct {
	Chats      []models.Chat `json:"chats"`
	TotalPages int           `json:"totalPages"`
}

func (s *ChatService) fetchPage(ctx context.Context, matchID string, n int) (page.Result[models.Chat], error) {
	var resp chatPageResponse
	err := s.gw.Get(ctx, "/chats/"+matchID+"?page="+strconv.Itoa(n), &resp)
	if err != nil {
		return page.Result[models.Chat]{}, err
	}
	return page.Result[models.Chat]{Items: resp.Chats, TotalPages: resp.TotalPages}, nil
}

// Open switches the service to a conversation and loads its newest page.
func (s *ChatService) Open(ctx context.Context, matchID string) error {
	s.mu.Lock()
	s.matchID = matchID
	s.pending = nil
	s.mu.Unlock()

	s.fetcher.Reset(matchID)
	_, err := s.fetcher.FetchPage(ctx, 1)
	return err
}

// LoadOlder prepends the next history page above the current messages.
func (s *ChatService) LoadOlder(ctx context.Context) error {
	_, err := s.fetcher.FetchNext(ctx)
	return err
}

func (s *ChatService) Messages() []models.Chat {
	return s.fetcher.Items()
}

func (s *ChatService) HasMore() bool {
	return s.fetcher.HasMore()
}

// Send emits a text message and blocks until the server echo confirms it or
// the timeout fires. On timeout the optimistic copy is rolled back.
func (s *ChatService) Send(ctx context.Context, matchID, receiverID, content string) (models.Chat, error) {
	if !s.socket.IsConnected() {
		return models.Chat{}, ErrNotConnected
	}
	userID, ok := s.store.UserID()
	if !ok {
		return models.Chat{}, fmt.Errorf("send: %w", api.ErrUnauthorized)
	}

	temp := models.Chat{
		ID:           "tmp-" + uuid.NewString(),
		Match:        matchID,
		SenderUser:   userID,
		ReceiverUser: receiverID,
		Content:      content,
		Type:         models.ChatTypeText,
		Status:       models.ChatStatusSending,
		CreatedAt:    time.Now(),
	}
	s.fetcher.Push(temp)

	p := &pendingSend{
		tempID:  temp.ID,
		match:   matchID,
		content: content,
		echo:    make(chan models.Chat, 1),
		failed:  make(chan error, 1),
	}
	s.mu.Lock()
	s.pending = append(s.pending, p)
	s.mu.Unlock()

	payload := models.ChatPayload{
		Match:        matchID,
		SenderUser:   userID,
		ReceiverUser: receiverID,
		Content:      content,
		Type:         models.ChatTypeText,
		Status:       models.ChatStatusSent,
	}
	if err := s.socket.Emit(realtime.EventSendChat, payload); err != nil {
		s.rollback(p)
		return models.Chat{}, err
	}

	select {
	case confirmed := <-p.echo:
		return confirmed, nil
	case err := <-p.failed:
		s.rollback(p)
		return models.Chat{}, err
	case <-time.After(s.sendTimeout):
		s.rollback(p)
		return models.Chat{}, ErrSendTimeout
	case <-ctx.Done():
		s.rollback(p)
		return models.Chat{}, ctx.Err()
	}
}

// MarkSeen reports the conversation as read and flips local inbound
// messages to Seen.
func (s *ChatService) MarkSeen(matchID string) error {
	userID, ok := s.store.UserID()
	if !ok {
		return fmt.Errorf("mark seen: %w", api.ErrUnauthorized)
	}
	body := struct {
		Match string `json:"match"`
		User  string `json:"user"`
	}{Match: matchID, User: userID}
	if err := s.socket.Emit(realtime.EventMarkSeen, body); err != nil {
		return err
	}

	s.fetcher.Each(func(c models.Chat) models.Chat {
		if c.SenderUser != userID {
			c.Status = models.ChatStatusSeen
		}
		return c
	})
	return nil
}

type receiveChatEvent struct {
	realtime.ErrorEnvelope
	Chat models.Chat `json:"chat"`
}

// onReceiveChat handles server pushes: echoes of our own sends reconcile the
// optimistic copy, messages from the other side append at the bottom.
func (s *ChatService) onReceiveChat(data json.RawMessage) {
	var ev receiveChatEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn(context.Background(), "unreadable receiveChat payload", "error", err)
		return
	}

	if ev.IsError {
		s.failPending(errors.New(ev.ErrorMessage))
		return
	}

	userID, _ := s.store.UserID()

	s.mu.Lock()
	if ev.Chat.Match != s.matchID {
		s.mu.Unlock()
		return
	}
	var matched *pendingSend
	if ev.Chat.SenderUser == userID {
		for i, p := range s.pending {
			if p.match == ev.Chat.Match && p.content == ev.Chat.Content {
				matched = p
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if matched != nil {
		tempID := matched.tempID
		if !s.fetcher.Swap(func(c models.Chat) bool { return c.ID == tempID }, ev.Chat) {
			s.fetcher.Push(ev.Chat)
		}
		matched.echo <- ev.Chat
		return
	}

	s.fetcher.Push(ev.Chat)
}

func (s *ChatService) rollback(p *pendingSend) {
	s.mu.Lock()
	for i, q := range s.pending {
		if q == p {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.fetcher.Remove(func(c models.Chat) bool { return c.ID == p.tempID })
}

// failPending wakes every in-flight send with the server's error. The
// backend does not correlate errors to messages, so all of them fail.
func (s *ChatService) failPending(err error) {
	s.mu.Lock()
	waiting := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, p := range waiting {
		select {
		case p.failed <- err:
		default:
		}
	}
}
