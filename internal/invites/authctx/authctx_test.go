package authctx_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/stretchr/testify/require"
)

func TestCallerRoundTrip(t *testing.T) {
	_, ok := authctx.CallerFrom(context.Background())
	require.False(t, ok)

	ctx := authctx.WithCaller(context.Background(), authctx.Caller{ID: "u1", Role: domain.RoleAdmin})
	c, ok := authctx.CallerFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", c.ID)
	require.True(t, c.IsAdmin())
}

func TestEmptyCallerIsAnonymous(t *testing.T) {
	ctx := authctx.WithCaller(context.Background(), authctx.Caller{Role: domain.RoleClient})
	_, ok := authctx.CallerFrom(ctx)
	require.False(t, ok)
}
