package services

import (
	"context"
	"fmt"

	"github.com/matchy-app/matchy-client/internal/client/api"
	"github.com/matchy-app/matchy-client/internal/client/auth"
	"github.com/matchy-app/matchy-client/internal/client/models"
	"github.com/matchy-app/matchy-client/internal/logging"
)

// SafetyService files reports and blocks. Both actions are server-enforced;
// the client does not hide content on its own.
type SafetyService struct {
	gw    *api.Gateway
	store *auth.Store
	log   logging.Logger
}

func NewSafetyService(gw *api.Gateway, store *auth.Store, log logging.Logger) *SafetyService {
	return &SafetyService{gw: gw, store: store, log: log.With("component", "safety")}
}

func (s *SafetyService) Report(ctx context.Context, reportedUser string, reason models.ReportReason, description string) error {
	userID, ok := s.store.UserID()
	if !ok {
		return fmt.Errorf("report: %w", api.ErrUnauthorized)
	}
	dto := models.CreateReportDTO{
		User:         userID,
		ReportedUser: reportedUser,
		Reason:       reason,
		Description:  description,
	}
	if err := s.gw.Post(ctx, "/reports", dto, nil); err != nil {
		return err
	}
	s.log.Info(ctx, "report filed", "reportedUser", reportedUser, "reason", reason)
	return nil
}

func (s *SafetyService) Block(ctx context.Context, blockedUser string) error {
	userID, ok := s.store.UserID()
	if !ok {
		return fmt.Errorf("block: %w", api.ErrUnauthorized)
	}
	dto := models.CreateBlockDTO{User: userID, BlockedUser: blockedUser}
	if err := s.gw.Post(ctx, "/blocks", dto, nil); err != nil {
		return err
	}
	s.log.Info(ctx, "user blocked", "blockedUser", blockedUser)
	return nil
}
