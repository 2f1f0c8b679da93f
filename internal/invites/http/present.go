package http

import (
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/i18n"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
	"golang.org/x/text/message"
)

func toInvitation(p *message.Printer, inv domain.Invitation, link string, now time.Time) invitesdk.Invitation {
	status := inv.EffectiveStatus(now)
	return invitesdk.Invitation{
		ID:              inv.ID,
		Code:            inv.Code,
		Email:           inv.Email,
		Role:            inv.Role.String(),
		Status:          string(status),
		StatusLabel:     i18n.StatusLabel(p, status),
		InvitedBy:       inv.InvitedBy,
		InvitedByRole:   inv.InvitedByRole.String(),
		ExpiresAt:       inv.ExpiresAt,
		ExpiryText:      i18n.ExpiryText(p, inv.ExpiresAt, now),
		AcceptedAt:      inv.AcceptedAt,
		AcceptedBy:      inv.AcceptedBy,
		Metadata:        inv.Metadata,
		CreatedAt:       inv.CreatedAt,
		Link:            link,
		InviterName:     inv.InviterName,
		InviterEmail:    inv.InviterEmail,
		AcceptedByName:  inv.AcceptedByName,
		AcceptedByEmail: inv.AcceptedByEmail,
	}
}

func toPlan(p domain.Plan) invitesdk.Plan {
	return invitesdk.Plan{
		ID:       p.ID.String(),
		Name:     p.Name,
		Price:    p.Price,
		Features: p.Features,
		Limits: invitesdk.PlanLimits{
			Agents:      wireLimit(p.Limits.Agents),
			HistoryDays: wireLimit(p.Limits.HistoryDays),
			Users:       wireLimit(p.Limits.Users),
		},
	}
}

func wireLimit(n int) int {
	if n == domain.Unbounded {
		return invitesdk.Unlimited
	}
	return n
}

func toToken(tok *service.AccessToken, now time.Time) *invitesdk.TokenResponse {
	if tok == nil {
		return nil
	}
	return &invitesdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(tok.ExpiresAt.Sub(now).Seconds()),
	}
}
