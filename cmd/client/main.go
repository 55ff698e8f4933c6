package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/matchy-app/matchy-client/internal/buildinfo"
	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/cli"
	"github.com/matchy-app/matchy-client/internal/client/config"
	"github.com/matchy-app/matchy-client/internal/client/feed"
	"github.com/matchy-app/matchy-client/internal/client/realtime"
	"github.com/matchy-app/matchy-client/internal/client/services"
	"github.com/matchy-app/matchy-client/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelWarn})))

	// The refresh token travels as an HTTP-only cookie; the jar keeps it
	// across the login -> refresh lifecycle.
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("%v", err)
	}
	httpClient := &http.Client{Timeout: cfg.RequestTimeout, Jar: jar}

	store := auth.NewStore()
	coordinator := api.NewCoordinator(cfg.BackendURL, httpClient, store, logger)
	gateway := api.NewGateway(cfg.BackendURL, httpClient, store, coordinator, logger)

	socket := realtime.NewManager(cfg.SocketURL, realtime.Options{
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectDelay:    cfg.ReconnectDelay,
	}, logger)

	feedAPI := services.NewFeedAPI(gateway, store)
	matchSvc := services.NewMatchService(gateway, store, cfg.SearchDebounce, logger)
	defer matchSvc.Close()

	app := cli.NewApp(cli.Deps{
		Auth:          services.NewAuthService(gateway, store, logger),
		Users:         services.NewUserService(gateway, store, logger),
		Safety:        services.NewSafetyService(gateway, store, logger),
		Chat:          services.NewChatService(gateway, store, socket, cfg.ChatSendTimeout, logger),
		Matches:       matchSvc,
		Notifications: services.NewNotificationService(gateway, store, socket, logger),
		Deck: feed.NewEngine(feedAPI, feed.Options{
			LowWater:  cfg.FeedLowWater,
			ExitDelay: feed.DefaultExitDelay,
		}, logger),
		Socket:        socket,
		Log:           logger,
	})

	app.Run(ctx)
}
