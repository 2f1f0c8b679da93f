package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/drivers/postgres"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/storetest"
	"github.com/aussiebroadwan/invitedesk/pkg/idx"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "invites"
	pgPassword = "invites"
)

// startPostgres runs a throwaway server and returns a DSN template that takes
// a database name.
func startPostgres(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			// The server restarts once during init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%%s?sslmode=disable", pgUser, pgPassword, host, port.Port())
}

func TestStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	admin, err := pgx.Connect(ctx, fmt.Sprintf(dsn, "postgres"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close(ctx) })

	storetest.Run(t, func(t *testing.T) store.Store {
		t.Helper()

		name := "t_" + strings.ToLower(idx.New().String())
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		require.NoError(t, err)

		st, err := postgres.NewStore(ctx, fmt.Sprintf(dsn, name))
		require.NoError(t, err)
		require.NoError(t, st.ApplyMigrations())
		require.NoError(t, st.ApplyMigrations())
		t.Cleanup(func() { _ = st.Close() })
		return st
	})

	t.Run("corrupt metadata is reported", func(t *testing.T) {
		name := "t_" + strings.ToLower(idx.New().String())
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		require.NoError(t, err)

		st, err := postgres.NewStore(ctx, fmt.Sprintf(dsn, name))
		require.NoError(t, err)
		require.NoError(t, st.ApplyMigrations())
		t.Cleanup(func() { _ = st.Close() })

		analyst := storetest.SeedUser(t, st, domain.RoleAnalyst)
		inv := storetest.SeedInvitation(t, st, analyst, domain.RoleClient, storetest.Now, time.Hour)

		conn, err := pgx.Connect(ctx, fmt.Sprintf(dsn, name))
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close(ctx) })
		_, err = conn.Exec(ctx, `UPDATE invitations SET metadata = '[1, 2]'::jsonb WHERE id = $1`, inv.ID)
		require.NoError(t, err)

		_, err = st.Invitations().GetInvitationByCode(ctx, inv.Code)
		require.Error(t, err)
		require.ErrorContains(t, err, inv.ID)
		require.NotErrorIs(t, err, store.ErrNotFound)
	})
}
