package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/stretchr/testify/require"
)

func TestIsValidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status domain.InvitationStatus
		expiry time.Time
		want   bool
	}{
		{"pending in future", domain.StatusPending, now.Add(time.Hour), true},
		{"pending exactly now", domain.StatusPending, now, false},
		{"pending in past", domain.StatusPending, now.Add(-time.Second), false},
		{"accepted", domain.StatusAccepted, now.Add(time.Hour), false},
		{"cancelled", domain.StatusCancelled, now.Add(time.Hour), false},
		{"expired", domain.StatusExpired, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.Invitation{Status: tt.status, ExpiresAt: tt.expiry}
			require.Equal(t, tt.want, inv.IsValidAt(now))
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	inv := domain.Invitation{Status: domain.StatusPending, ExpiresAt: now.Add(-time.Minute)}
	require.Equal(t, domain.StatusExpired, inv.EffectiveStatus(now))

	inv.ExpiresAt = now.Add(time.Minute)
	require.Equal(t, domain.StatusPending, inv.EffectiveStatus(now))

	inv.Status = domain.StatusCancelled
	inv.ExpiresAt = now.Add(-time.Minute)
	require.Equal(t, domain.StatusCancelled, inv.EffectiveStatus(now))
}

func TestCanTransition(t *testing.T) {
	all := []domain.InvitationStatus{
		domain.StatusPending,
		domain.StatusAccepted,
		domain.StatusExpired,
		domain.StatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			want := from == domain.StatusPending && to != domain.StatusPending
			require.Equal(t, want, domain.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	for _, s := range all[1:] {
		require.True(t, s.Terminal())
	}
	require.False(t, domain.StatusPending.Terminal())
}

func TestInviterRoleFor(t *testing.T) {
	r, ok := domain.InviterRoleFor(domain.RoleAnalyst)
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, r)

	r, ok = domain.InviterRoleFor(domain.RoleClient)
	require.True(t, ok)
	require.Equal(t, domain.RoleAnalyst, r)

	_, ok = domain.InviterRoleFor(domain.RoleAdmin)
	require.False(t, ok)

	_, ok = domain.InviterRoleFor(domain.Role("owner"))
	require.False(t, ok)
}

func TestLinksAnalystToClient(t *testing.T) {
	inv := domain.Invitation{Role: domain.RoleClient, InvitedByRole: domain.RoleAnalyst}
	require.True(t, inv.LinksAnalystToClient())

	inv = domain.Invitation{Role: domain.RoleAnalyst, InvitedByRole: domain.RoleAdmin}
	require.False(t, inv.LinksAnalystToClient())
}
