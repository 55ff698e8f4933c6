package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// UserService covers profile reads, edits and media uploads.
type UserService struct {
	gw    *api.Gateway
	store *auth.Store
	log   logging.Logger
}

func NewUserService(gw *api.Gateway, store *auth.Store, log logging.Logger) *UserService {
	return &UserService{gw: gw, store: store, log: log.With("component", "users")}
}

func (s *UserService) Get(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.gw.Get(ctx, "/users/"+userID, &user)
	return user, err
}

// Me fetches the logged-in user's own profile.
func (s *UserService) Me(ctx context.Context) (models.User, error) {
	userID, ok := s.store.UserID()
	if !ok {
		return models.User{}, fmt.Errorf("profile: %w", api.ErrUnauthorized)
	}
	return s.Get(ctx, userID)
}

func (s *UserService) Update(ctx context.Context, dto models.UpdateUserDTO) (models.User, error) {
	userID, ok := s.store.UserID()
	if !ok {
		return models.User{}, fmt.Errorf("profile: %w", api.ErrUnauthorized)
	}
	var updated models.User
	err := s.gw.Patch(ctx, "/users/"+userID, dto, &updated)
	return updated, err
}

// Upload is one file of a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

// UploadPhoto replaces the primary profile picture.
func (s *UserService) UploadPhoto(ctx context.Context, photo Upload) (models.User, error) {
	userID, ok := s.store.UserID()
	if !ok {
		return models.User{}, fmt.Errorf("photo upload: %w", api.ErrUnauthorized)
	}

	body, contentType, err := multipartBody("photo", []Upload{photo})
	if err != nil {
		return models.User{}, err
	}

	var updated models.User
	err = s.gw.Upload(ctx, http.MethodPatch, "/users/uploadPhoto/"+userID, body, contentType, &updated)
	return updated, err
}

// UploadAlbums appends gallery entries to the profile.
func (s *UserService) UploadAlbums(ctx context.Context, albums []Upload) (models.User, error) {
	userID, ok := s.store.UserID()
	if !ok {
		return models.User{}, fmt.Errorf("album upload: %w", api.ErrUnauthorized)
	}
	if len(albums) == 0 {
		return models.User{}, fmt.Errorf("album upload: no files")
	}

	body, contentType, err := multipartBody("albums", albums)
	if err != nil {
		return models.User{}, err
	}

	var updated models.User
	err = s.gw.Upload(ctx, http.MethodPatch, "/users/uploadAlbums/"+userID, body, contentType, &updated)
	return updated, err
}

func multipartBody(field string, files []Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.CreateFormFile(field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("build multipart body: %w", err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("build multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
