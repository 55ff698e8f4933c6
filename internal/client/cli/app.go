package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matchy-app/matchy-client/internal/client/feed"
	"github.com/matchy-app/matchy-client/internal/client/services"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// SessionSocket is the slice of the realtime manager the CLI drives:
// connect on login, disconnect on logout.
type SessionSocket interface {
	Connect(ctx context.Context, userID string) error
	Disconnect(userID string)
}

type App struct {
	auth          *services.AuthService
	users         *services.UserService
	safety        *services.SafetyService
	chat          *services.ChatService
	matches       *services.MatchService
	notifications *services.NotificationService
	deck          *feed.Engine
	socket        SessionSocket
	log           logging.Logger

	userID string
	reader *bufio.Reader
	out    io.Writer
}

// Deps carries the wired services into the CLI. Everything is constructed in
// main; the CLI owns only the interaction loop.
type Deps struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Safety        *services.SafetyService
	Chat          *services.ChatService
	Matches       *services.MatchService
	Notifications *services.NotificationService
	Deck          *feed.Engine
	Socket        SessionSocket
	Log           logging.Logger
	In            io.Reader
	Out           io.Writer
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	return &App{
		auth:          d.Auth,
		users:         d.Users,
		safety:        d.Safety,
		chat:          d.Chat,
		matches:       d.Matches,
		notifications: d.Notifications,
		deck:          d.Deck,
		socket:        d.Socket,
		log:           d.Log,
		reader:        bufio.NewReader(d.In),
		out:           d.Out,
	}
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}

func (a *App) getStatus() string {
	if a.userID == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userID)
}

// Run starts the interactive loop and blocks until the user exits or
// input reaches EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Matchy CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(a.reader)
	runREPL(ctx, a, a.getStatus, scanner, a.out)

	if a.isLoggedIn() {
		a.socket.Disconnect(a.userID)
	}
}
