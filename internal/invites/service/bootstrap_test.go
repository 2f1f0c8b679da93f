package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := &BootstrapService{
		Store:  f.st,
		Hasher: cryptox.Hasher{},
		Tokens: f.tokens,
		Token:  "let-me-in",
		Now:    f.clk.Now,
	}
	params := BootstrapParams{Name: "Root", Email: "Root@Example.com", Password: "changeme"}
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, "wrong", params)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Bootstrap(ctx, "let-me-in", BootstrapParams{Name: "Root", Email: "root@example.com", Password: "123"})
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	res, err := svc.Bootstrap(ctx, "let-me-in", params)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, res.Admin.Role)
	require.Equal(t, "root@example.com", res.Admin.Email)
	require.Nil(t, res.Admin.Plan)

	claims, err := f.verifier.Verify(res.Token.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, res.Admin.ID, claims.Subject)

	_, err = svc.Bootstrap(ctx, "let-me-in", params)
	require.ErrorIs(t, err, apperrors.ErrAlreadyBootstrapped)
}

func TestBootstrapDisabledWithoutToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := &BootstrapService{Store: f.st, Tokens: f.tokens}

	_, err := svc.Bootstrap(context.Background(), "", BootstrapParams{Name: "Root", Email: "root@example.com", Password: "changeme"})
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
