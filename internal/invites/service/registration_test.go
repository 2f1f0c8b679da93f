package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store/storetest"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newRegistration(f *fixture) *RegistrationService {
	return &RegistrationService{
		Store:       f.st,
		Invitations: f.invitations,
		Hasher:      cryptox.Hasher{Pepper: "pepper"},
		Tokens:      f.tokens,
		Now:         f.clk.Now,
	}
}

func validParams(code string) RegisterParams {
	return RegisterParams{
		Code:            code,
		Name:            "  Carla Client ",
		Phone:           "(11) 98765-4321",
		Organization:    "Acme",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates account and accepts invitation", func(t *testing.T) {
		f := newFixture(t)
		reg := newRegistration(f)
		analyst := storetest.SeedUser(t, f.st, domain.RoleAnalyst)
		inv := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now, 7*24*time.Hour)

		res, err := reg.Register(context.Background(), validParams(inv.Code))
		require.NoError(t, err)

		require.Equal(t, "Carla Client", res.User.Name)
		require.Equal(t, inv.Email, res.User.Email)
		require.Equal(t, "11987654321", res.User.Phone)
		require.Equal(t, domain.RoleClient, res.User.Role)
		require.NotNil(t, res.User.Plan)
		require.Equal(t, domain.PlanPro, *res.User.Plan)
		require.NoError(t, reg.Hasher.Verify("secret1", res.User.PasswordHash))

		require.Equal(t, domain.StatusAccepted, res.Invitation.Status)
		require.Equal(t, res.User.ID, *res.Invitation.AcceptedBy)

		ok, err := f.clients.HasClient(context.Background(), analyst.ID, res.User.ID)
		require.NoError(t, err)
		require.True(t, ok)

		require.NotNil(t, res.Token)
		claims, err := f.verifier.Verify(res.Token.Token)
		require.NoError(t, err)
		require.Equal(t, res.User.ID, claims.Subject)
		require.Equal(t, "client", claims.Role)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		reg := newRegistration(f)

		cases := map[string]func(p *RegisterParams){
			"short password":   func(p *RegisterParams) { p.Password, p.ConfirmPassword = "abc", "abc" },
			"mismatch":         func(p *RegisterParams) { p.ConfirmPassword = "other12" },
			"missing name":     func(p *RegisterParams) { p.Name = "   " },
			"short phone":      func(p *RegisterParams) { p.Phone = "12345" },
			"letters in phone": func(p *RegisterParams) { p.Phone = "11 9876x4321" },
			"missing code":     func(p *RegisterParams) { p.Code = "" },
		}
		for name, mutate := range cases {
			p := validParams("code")
			mutate(&p)
			_, err := reg.Register(context.Background(), p)
			require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput), name)
		}
	})

	t.Run("phone is optional", func(t *testing.T) {
		f := newFixture(t)
		reg := newRegistration(f)
		admin := storetest.SeedUser(t, f.st, domain.RoleAdmin)
		inv := storetest.SeedInvitation(t, f.st, admin, domain.RoleAnalyst, storetest.Now, 7*24*time.Hour)

		p := validParams(inv.Code)
		p.Phone = ""
		res, err := reg.Register(context.Background(), p)
		require.NoError(t, err)
		require.Empty(t, res.User.Phone)
	})

	t.Run("unusable invitations", func(t *testing.T) {
		f := newFixture(t)
		reg := newRegistration(f)
		analyst := storetest.SeedUser(t, f.st, domain.RoleAnalyst)

		_, err := reg.Register(context.Background(), validParams("unknown"))
		require.ErrorIs(t, err, apperrors.ErrInvitationNotFound)

		expired := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now.Add(-10*24*time.Hour), 7*24*time.Hour)
		_, err = reg.Register(context.Background(), validParams(expired.Code))
		require.ErrorIs(t, err, apperrors.ErrInvitationExpired)

		cancelled := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now, 7*24*time.Hour)
		_, err = f.invitations.CancelInvitation(as(analyst), cancelled.ID)
		require.NoError(t, err)
		_, err = reg.Register(context.Background(), validParams(cancelled.Code))
		require.ErrorIs(t, err, apperrors.ErrInvitationCancelled)

		used := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now, 7*24*time.Hour)
		_, err = reg.Register(context.Background(), validParams(used.Code))
		require.NoError(t, err)
		_, err = reg.Register(context.Background(), validParams(used.Code))
		require.ErrorIs(t, err, apperrors.ErrInvitationAlreadyAccepted)
	})

	t.Run("email already registered", func(t *testing.T) {
		f := newFixture(t)
		reg := newRegistration(f)
		analyst := storetest.SeedUser(t, f.st, domain.RoleAnalyst)

		first := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now, 7*24*time.Hour)
		_, err := reg.Register(context.Background(), validParams(first.Code))
		require.NoError(t, err)

		// A second invitation to the same address.
		second, err := f.invitations.CreateInvitation(as(analyst), CreateInvitationParams{
			Email: first.Email,
			Role:  domain.RoleClient,
		})
		require.NoError(t, err)

		_, err = reg.Register(context.Background(), validParams(second.Code))
		require.ErrorIs(t, err, apperrors.ErrEmailTaken)
		require.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("partial failure keeps the account", func(t *testing.T) {
		f := newFixture(t)
		reg := newRegistration(f)
		analyst := storetest.SeedUser(t, f.st, domain.RoleAnalyst)
		inv := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now, 7*24*time.Hour)

		// The invitation lapses between the validity check and acceptance.
		calls := 0
		reg.Invitations = &InvitationService{
			Store: f.st,
			Now: func() time.Time {
				calls++
				if calls > 1 {
					return storetest.Now.Add(30 * 24 * time.Hour)
				}
				return storetest.Now
			},
		}

		res, err := reg.Register(context.Background(), validParams(inv.Code))
		require.ErrorIs(t, err, apperrors.ErrRegistrationIncomplete)
		require.ErrorIs(t, err, apperrors.ErrInvitationExpired)
		require.True(t, apperrors.IsKind(err, apperrors.KindPartialFailure))
		require.NotEmpty(t, res.User.ID)
		require.NotNil(t, res.Token)

		stored, err := f.st.Users().GetUserByID(context.Background(), res.User.ID)
		require.NoError(t, err)
		require.Equal(t, inv.Email, stored.Email)
	})

	t.Run("partial failure hands back a token to retry the accept", func(t *testing.T) {
		f := newFixture(t)
		analyst := storetest.SeedUser(t, f.st, domain.RoleAnalyst)
		inv := storetest.SeedInvitation(t, f.st, analyst, domain.RoleClient, storetest.Now, 7*24*time.Hour)

		flaky := &failingTxStore{Store: f.st, failures: 1}
		invitations := &InvitationService{Store: flaky, Now: f.clk.Now}
		reg := newRegistration(f)
		reg.Store = flaky
		reg.Invitations = invitations

		res, err := reg.Register(context.Background(), validParams(inv.Code))
		require.ErrorIs(t, err, apperrors.ErrRegistrationIncomplete)
		require.NotNil(t, res.Token)

		// Registering again is refused, the account already exists.
		_, err = reg.Register(context.Background(), validParams(inv.Code))
		require.ErrorIs(t, err, apperrors.ErrEmailTaken)

		stored, err := f.st.Invitations().GetInvitationByCode(context.Background(), inv.Code)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, stored.Status)

		// The token identifies the new account, which can accept on its own.
		claims, err := f.verifier.Verify(res.Token.Token)
		require.NoError(t, err)
		require.Equal(t, res.User.ID, claims.Subject)

		caller := authctx.WithCaller(context.Background(), authctx.Caller{ID: claims.Subject, Role: domain.Role(claims.Role)})
		accepted, err := invitations.AcceptInvitation(caller, inv.Code)
		require.NoError(t, err)
		require.Equal(t, domain.StatusAccepted, accepted.Status)
		require.Equal(t, res.User.ID, *accepted.AcceptedBy)

		linked, err := f.clients.HasClient(context.Background(), analyst.ID, res.User.ID)
		require.NoError(t, err)
		require.True(t, linked)
	})
}

// failingTxStore fails the next few transactions before they start.
type failingTxStore struct {
	store.Store
	failures int
}

func (s *failingTxStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("database is locked")
	}
	return s.Store.WithTx(ctx, fn)
}

func TestPhoneDigits(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{
		"1133334444":        "1133334444",
		"(11) 3333-4444":    "1133334444",
		"11 98765 4321":     "11987654321",
		"+55 11 98765 4321": "",
	} {
		got, ok := phoneDigits(raw)
		if want == "" {
			require.False(t, ok, raw)
			continue
		}
		require.True(t, ok, raw)
		require.Equal(t, want, got)
	}
}
