package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/client/realtime"
)

func chatHistoryServer(t *testing.T, pages map[int][]models.Chat, totalPages int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		page := r.URL.Query().Get("page")
		n := 1
		if page == "2" {
			n = 2
		}
		writeJSON(t, w, map[string]any{"chats": pages[n], "totalPages": totalPages})
	}))
}

func TestOpenLoadsNewestHistoryPage(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{
		1: {{ID: "c1", Content: "hey"}, {ID: "c2", Content: "hi"}},
	}, 3)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	svc := NewChatService(testGateway(srv, store), store, newFakeSocket(), time.Second, testLogger())

	require.NoError(t, svc.Open(context.Background(), "match-1"))
	msgs := svc.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "c1", msgs[0].ID)
	assert.True(t, svc.HasMore())
}

func TestLoadOlderPrependsAboveExistingMessages(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{
		1: {{ID: "c3"}, {ID: "c4"}},
		2: {{ID: "c1"}, {ID: "c2"}},
	}, 2)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	svc := NewChatService(testGateway(srv, store), store, newFakeSocket(), time.Second, testLogger())

	require.NoError(t, svc.Open(context.Background(), "match-1"))
	require.NoError(t, svc.LoadOlder(context.Background()))

	msgs := svc.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"},
		[]string{msgs[0].ID, msgs[1].ID, msgs[2].ID, msgs[3].ID})
	assert.False(t, svc.HasMore())
}

func TestSendReconcilesOptimisticCopyWithServerEcho(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	svc := NewChatService(testGateway(srv, store), store, socket, time.Second, testLogger())
	require.NoError(t, svc.Open(context.Background(), "match-1"))

	type sendResult struct {
		chat models.Chat
		err  error
	}
	done := make(chan sendResult, 1)
	go func() {
		chat, err := svc.Send(context.Background(), "match-1", "user-2", "hello")
		done <- sendResult{chat, err}
	}()

	// The optimistic copy goes out over the socket first.
	ev := <-socket.emits
	assert.Equal(t, realtime.EventSendChat, ev.Event)
	payload, ok := ev.Data.(models.ChatPayload)
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Content)
	assert.Equal(t, models.ChatStatusSent, payload.Status)

	msgs := svc.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.ChatStatusSending, msgs[0].Status)
	tempID := msgs[0].ID

	echo := models.Chat{
		ID: "server-1", Match: "match-1",
		SenderUser: "user-1", ReceiverUser: "user-2",
		Content: "hello", Type: models.ChatTypeText, Status: models.ChatStatusSent,
	}
	socket.fire(t, realtime.EventReceiveChat, map[string]any{"chat": echo})

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "server-1", res.chat.ID)

	// Exactly one copy remains, the persisted one in the temp copy's slot.
	msgs = svc.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "server-1", msgs[0].ID)
	assert.NotEqual(t, tempID, msgs[0].ID)
	assert.Equal(t, models.ChatStatusSent, msgs[0].Status)
}

func TestSendTimeoutRollsBackOptimisticCopy(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	svc := NewChatService(testGateway(srv, store), store, socket, 30*time.Millisecond, testLogger())
	require.NoError(t, svc.Open(context.Background(), "match-1"))

	_, err := svc.Send(context.Background(), "match-1", "user-2", "lost")
	assert.ErrorIs(t, err, ErrSendTimeout)
	assert.Empty(t, svc.Messages())
}

func TestSendRequiresConnectedSocket(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	socket.setConnected(false)
	svc := NewChatService(testGateway(srv, store), store, socket, time.Second, testLogger())

	_, err := svc.Send(context.Background(), "match-1", "user-2", "hello")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestInboundMessageFromOtherUserAppends(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {{ID: "c1"}}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	svc := NewChatService(testGateway(srv, store), store, socket, time.Second, testLogger())
	require.NoError(t, svc.Open(context.Background(), "match-1"))

	inbound := models.Chat{
		ID: "c2", Match: "match-1",
		SenderUser: "user-2", ReceiverUser: "user-1",
		Content: "you there?", Status: models.ChatStatusDelivered,
	}
	socket.fire(t, realtime.EventReceiveChat, map[string]any{"chat": inbound})

	msgs := svc.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "c2", msgs[1].ID)
}

func TestInboundMessageForOtherConversationIgnored(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	svc := NewChatService(testGateway(srv, store), store, socket, time.Second, testLogger())
	require.NoError(t, svc.Open(context.Background(), "match-1"))

	socket.fire(t, realtime.EventReceiveChat, map[string]any{
		"chat": models.Chat{ID: "x1", Match: "match-9", SenderUser: "user-3"},
	})
	assert.Empty(t, svc.Messages())
}

func TestServerErrorFailsPendingSend(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	svc := NewChatService(testGateway(srv, store), store, socket, time.Second, testLogger())
	require.NoError(t, svc.Open(context.Background(), "match-1"))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(context.Background(), "match-1", "user-2", "hello")
		done <- err
	}()
	<-socket.emits

	socket.fire(t, realtime.EventReceiveChat, map[string]any{
		"isError": true, "errorMessage": "receiver not found",
	})

	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receiver not found")
	assert.Empty(t, svc.Messages())
}

func TestMarkSeenEmitsAndFlipsInboundStatuses(t *testing.T) {
	srv := chatHistoryServer(t, map[int][]models.Chat{1: {
		{ID: "c1", SenderUser: "user-2", Status: models.ChatStatusDelivered},
		{ID: "c2", SenderUser: "user-1", Status: models.ChatStatusSent},
	}}, 1)
	defer srv.Close()

	store := sessionStore(t, "user-1")
	socket := newFakeSocket()
	svc := NewChatService(testGateway(srv, store), store, socket, time.Second, testLogger())
	require.NoError(t, svc.Open(context.Background(), "match-1"))

	require.NoError(t, svc.MarkSeen("match-1"))

	ev := <-socket.emits
	assert.Equal(t, realtime.EventMarkSeen, ev.Event)

	msgs := svc.Messages()
	assert.Equal(t, models.ChatStatusSeen, msgs[0].Status, "their message flips to Seen")
	assert.Equal(t, models.ChatStatusSent, msgs[1].Status, "own message untouched")
}
