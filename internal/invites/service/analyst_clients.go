package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// AnalystClientService manages which clients an analyst looks after.
// Mutations are lenient: they report success as a bool and log failures.
type AnalystClientService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *AnalystClientService) HasClient(ctx context.Context, analystID, clientID string) (bool, error) {
	ok, err := s.Store.AnalystClients().Has(ctx, analystID, clientID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to check analyst client",
			slog.String("analyst_id", analystID),
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		return false, apperrors.Store(err)
	}
	return ok, nil
}

// ListClientIDs returns the analyst's client ids, sorted and never nil.
func (s *AnalystClientService) ListClientIDs(ctx context.Context, analystID string) ([]string, error) {
	ids, err := s.Store.AnalystClients().ListClientIDs(ctx, analystID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list analyst clients",
			slog.String("analyst_id", analystID),
			slog.Any("error", err),
		)
		return []string{}, apperrors.Store(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// AddClient links clientID to analystID. An existing link counts as success.
func (s *AnalystClientService) AddClient(ctx context.Context, analystID, clientID string) bool {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	if err := s.Store.AnalystClients().Add(ctx, analystID, clientID, now); err != nil {
		slogx.FromContext(ctx).Error("failed to add analyst client",
			slog.String("analyst_id", analystID),
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// RemoveClient unlinks clientID from analystID. A missing link counts as
// success.
func (s *AnalystClientService) RemoveClient(ctx context.Context, analystID, clientID string) bool {
	if err := s.Store.AnalystClients().Remove(ctx, analystID, clientID); err != nil {
		slogx.FromContext(ctx).Error("failed to remove analyst client",
			slog.String("analyst_id", analystID),
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}
