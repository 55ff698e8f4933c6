// Package services implements the feature-level operations of the Matchy
// client: session management, the swipe feed, match and chat lists,
// notifications, profile editing and safety actions. Services translate
// between view-level calls and the gateway / realtime transports.
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/logging"
)

type AuthService struct {
	gw    *api.Gateway
	store *auth.Store
	log   logging.Logger
}

func NewAuthService(gw *api.Gateway, store *auth.Store, log logging.Logger) *AuthService {
	return &AuthService{gw: gw, store: store, log: log.With("component", "auth")}
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	CsrfToken   string `json:"csrfToken"`
}

// Login exchanges credentials for a token pair and stores it. Returns the
// user id carried in the access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp loginResponse
	err := s.gw.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      body,
		Anonymous: true,
	}, &resp)
	if err != nil {
		return "", err
	}

	s.store.Set(auth.Tokens{Access: resp.AccessToken, CSRF: resp.CsrfToken})
	userID, ok := s.store.UserID()
	if !ok {
		s.store.Clear()
		return "", fmt.Errorf("login: access token carries no subject")
	}
	s.log.Info(ctx, "logged in", "userID", userID)
	return userID, nil
}

// Register creates a new account. The caller still logs in afterwards; the
// signup endpoint does not open a session.
func (s *AuthService) Register(ctx context.Context, dto models.CreateUserDTO) (models.User, error) {
	var created models.User
	err := s.gw.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/users",
		Body:      dto,
		Anonymous: true,
	}, &created)
	return created, err
}

// Logout revokes the session server-side and always drops local credentials,
// even when the revoke call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.gw.Post(ctx, "/auth/logout", nil, nil)
	s.store.Clear()
	if err != nil {
		s.log.Warn(ctx, "server-side logout failed, local session dropped", "error", err)
		return err
	}
	return nil
}

// UserID exposes the subject of the held session.
func (s *AuthService) UserID() (string, bool) {
	return s.store.UserID()
}
