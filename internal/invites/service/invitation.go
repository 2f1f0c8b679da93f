package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/aussiebroadwan/invitedesk/pkg/idx"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// MetadataPlan is the metadata key naming the plan a registered invitee
// receives.
const MetadataPlan = "plan"

type InvitationService struct {
	Store    store.Store
	Notifier Notifier // optional
	Origin   string
	Now      func() time.Time
}

type CreateInvitationParams struct {
	Email         string
	Role          domain.Role
	ExpiresInDays int
	Metadata      map[string]any
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateInvitation issues a pending invitation from the caller. Admins invite
// analysts and analysts invite clients.
func (s *InvitationService) CreateInvitation(
	ctx context.Context,
	params CreateInvitationParams,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Identify the caller.
	caller, ok := authctx.CallerFrom(ctx)
	if !ok {
		return domain.Invitation{}, apperrors.ErrUnauthenticated
	}

	// 2. Validate the request.
	email, err := normalizeEmail(params.Email)
	if err != nil {
		return domain.Invitation{}, err
	}
	inviterRole, ok := domain.InviterRoleFor(params.Role)
	if !ok {
		return domain.Invitation{}, apperrors.Invalid("role must be analyst or client")
	}
	if err := validatePlanMetadata(params.Metadata); err != nil {
		return domain.Invitation{}, err
	}
	if params.ExpiresInDays > domain.MaxExpiresInDays {
		return domain.Invitation{}, apperrors.Invalid("expires_in_days must be at most 365")
	}

	// 3. Only the inviter role for the target may invite.
	if caller.Role != inviterRole {
		log.Warn("invitation rejected: caller role cannot invite target role",
			slog.String("caller_id", caller.ID),
			slog.String("caller_role", caller.Role.String()),
			slog.String("target_role", params.Role.String()),
		)
		return domain.Invitation{}, apperrors.ErrForbidden
	}

	days := params.ExpiresInDays
	if days <= 0 {
		days = domain.DefaultExpiresInDays
	}

	// 4. Generate the code.
	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation code", slog.Any("error", err))
		return domain.Invitation{}, apperrors.Store(err)
	}

	now := s.now()
	inv, err := s.Store.Invitations().CreateInvitation(ctx, domain.Invitation{
		ID:            idx.NewAt(now).String(),
		Code:          code,
		Email:         email,
		Role:          params.Role,
		InvitedBy:     caller.ID,
		InvitedByRole: caller.Role,
		ExpiresAt:     now.AddDate(0, 0, days),
		Metadata:      params.Metadata,
		CreatedAt:     now,
	})
	if err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return domain.Invitation{}, apperrors.Store(err)
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("role", inv.Role.String()),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 5. Tell the invitee. Failure here never undoes the invitation.
	if s.Notifier != nil {
		if err := s.Notifier.NotifyInvitation(ctx, inv, s.GenerateLink(inv.Code)); err != nil {
			log.Warn("invitation notification failed",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
	}

	return inv, nil
}

// ListMyInvitations returns the invitations the caller created, newest first.
func (s *InvitationService) ListMyInvitations(ctx context.Context) ([]domain.Invitation, error) {
	caller, ok := authctx.CallerFrom(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}

	invs, err := s.Store.Invitations().ListInvitationsByInviter(ctx, caller.ID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list invitations", slog.Any("error", err))
		return nil, apperrors.Store(err)
	}
	return invs, nil
}

// ListAllInvitations returns every invitation. Admin only.
func (s *InvitationService) ListAllInvitations(ctx context.Context) ([]domain.Invitation, error) {
	caller, ok := authctx.CallerFrom(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	invs, err := s.Store.Invitations().ListAllInvitations(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list all invitations", slog.Any("error", err))
		return nil, apperrors.Store(err)
	}
	return invs, nil
}

// GetInvitationByCode returns nil without error when no invitation has code.
func (s *InvitationService) GetInvitationByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}

	inv, err := s.Store.Invitations().GetInvitationByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to look up invitation", slog.Any("error", err))
		return nil, apperrors.Store(err)
	}
	return &inv, nil
}

// IsValid reports whether inv can still be accepted.
func (s *InvitationService) IsValid(inv *domain.Invitation) bool {
	if inv == nil {
		return false
	}
	return inv.IsValidAt(s.now())
}

// AcceptInvitation accepts the invitation for the caller. Accepting a client
// invitation from an analyst also links the two, in the same transaction.
func (s *InvitationService) AcceptInvitation(ctx context.Context, code string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	caller, ok := authctx.CallerFrom(ctx)
	if !ok {
		return domain.Invitation{}, apperrors.ErrUnauthenticated
	}

	now := s.now()
	var accepted domain.Invitation
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().AcceptInvitation(ctx, code, caller.ID, now)
		if err != nil {
			return err
		}

		if inv.LinksAnalystToClient() {
			if err := tx.AnalystClients().Add(ctx, inv.InvitedBy, caller.ID, now); err != nil {
				return err
			}
		}

		accepted = inv
		return nil
	})
	if err != nil {
		mapped := mapInvitationError(err)
		if apperrors.IsKind(mapped, apperrors.KindStoreError) {
			log.Error("failed to accept invitation", slog.Any("error", err))
		} else {
			log.Warn("invitation not accepted",
				slog.String("user_id", caller.ID),
				slog.String("reason", string(apperrors.CodeOf(mapped))),
			)
		}
		return domain.Invitation{}, mapped
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", accepted.ID),
		slog.String("user_id", caller.ID),
		slog.Bool("linked_to_analyst", accepted.LinksAnalystToClient()),
	)
	return accepted, nil
}

// CancelInvitation cancels a pending invitation. Only its creator or an admin
// may cancel.
func (s *InvitationService) CancelInvitation(ctx context.Context, id string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	caller, ok := authctx.CallerFrom(ctx)
	if !ok {
		return domain.Invitation{}, apperrors.ErrUnauthenticated
	}

	inv, err := s.Store.Invitations().CancelInvitation(ctx, id, caller.ID, caller.IsAdmin(), s.now())
	if err != nil {
		mapped := mapInvitationError(err)
		log.Warn("invitation not cancelled",
			slog.String("invitation_id", id),
			slog.String("reason", string(apperrors.CodeOf(mapped))),
		)
		return domain.Invitation{}, mapped
	}

	log.Info("invitation cancelled", slog.String("invitation_id", inv.ID))
	return inv, nil
}

// GenerateLink returns the registration URL an invitee follows.
func (s *InvitationService) GenerateLink(code string) string {
	return strings.TrimRight(s.Origin, "/") + "/register?code=" + url.QueryEscape(code)
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.Invalid("email is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apperrors.Invalid("email is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}

func validatePlanMetadata(md map[string]any) error {
	raw, ok := md[MetadataPlan]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok || !domain.PlanID(s).Valid() {
		return apperrors.Invalid("metadata plan must be basic, pro or enterprise")
	}
	return nil
}

// planFromMetadata returns the plan an invitee should receive.
func planFromMetadata(md map[string]any) domain.PlanID {
	if s, ok := md[MetadataPlan].(string); ok && domain.PlanID(s).Valid() {
		return domain.PlanID(s)
	}
	return domain.PlanBasic
}
