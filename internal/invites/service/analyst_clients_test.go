package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestAnalystClientService(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	analyst := storetest.SeedUser(t, f.st, domain.RoleAnalyst)
	c1 := storetest.SeedUser(t, f.st, domain.RoleClient)
	c2 := storetest.SeedUser(t, f.st, domain.RoleClient)

	ids, err := f.clients.ListClientIDs(ctx, analyst.ID)
	require.NoError(t, err)
	require.NotNil(t, ids)
	require.Empty(t, ids)

	require.True(t, f.clients.AddClient(ctx, analyst.ID, c2.ID))
	require.True(t, f.clients.AddClient(ctx, analyst.ID, c1.ID))
	require.True(t, f.clients.AddClient(ctx, analyst.ID, c1.ID), "adding twice still succeeds")

	ids, err = f.clients.ListClientIDs(ctx, analyst.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{c1.ID, c2.ID}, ids)

	ok, err := f.clients.HasClient(ctx, analyst.ID, c1.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, f.clients.RemoveClient(ctx, analyst.ID, c1.ID))
	require.True(t, f.clients.RemoveClient(ctx, analyst.ID, c1.ID), "removing a missing link still succeeds")

	ok, err = f.clients.HasClient(ctx, analyst.ID, c1.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAnalystClientServiceStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.st.Close())

	require.False(t, f.clients.AddClient(ctx, "a", "b"))
	require.False(t, f.clients.RemoveClient(ctx, "a", "b"))

	_, err := f.clients.HasClient(ctx, "a", "b")
	require.Error(t, err)

	ids, err := f.clients.ListClientIDs(ctx, "a")
	require.Error(t, err)
	require.NotNil(t, ids)
}
