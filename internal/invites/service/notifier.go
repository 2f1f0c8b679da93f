package service

import (
	"context"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
)

// Notifier tells an invitee about a new invitation. Delivery is best effort.
type Notifier interface {
	NotifyInvitation(ctx context.Context, inv domain.Invitation, link string) error
}
