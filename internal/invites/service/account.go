package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/permissions"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// AccountService answers questions about the calling user.
type AccountService struct {
	Store       store.Store
	Permissions permissions.Evaluator
}

// Me loads the caller's user record.
func (s *AccountService) Me(ctx context.Context) (domain.User, error) {
	caller, ok := authctx.CallerFrom(ctx)
	if !ok {
		return domain.User{}, apperrors.ErrUnauthenticated
	}

	u, err := s.Store.Users().GetUserByID(ctx, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		// Token for a user that no longer exists.
		return domain.User{}, withCause(apperrors.ErrUnauthenticated, err)
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load caller", slog.Any("error", err))
		return domain.User{}, apperrors.Store(err)
	}
	return u, nil
}

func (s *AccountService) HasFeature(ctx context.Context, feature string) (bool, error) {
	u, err := s.Me(ctx)
	if err != nil {
		return false, err
	}
	return s.Permissions.HasFeatureAccess(&u, feature), nil
}

func (s *AccountService) WithinLimit(ctx context.Context, key domain.LimitKey, current int) (bool, error) {
	if !key.Valid() {
		return false, apperrors.Invalid("unknown limit " + string(key))
	}
	u, err := s.Me(ctx)
	if err != nil {
		return false, err
	}
	return s.Permissions.IsWithinLimit(&u, key, current), nil
}
