package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/aussiebroadwan/invitedesk/pkg/idx"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// BootstrapService creates the first admin of an empty deployment.
type BootstrapService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Tokens *TokenIssuer

	// Token is the shared secret required to bootstrap. Empty disables
	// bootstrapping.
	Token string
	Now   func() time.Time
}

type BootstrapParams struct {
	Name     string
	Email    string
	Password string
}

type BootstrapResult struct {
	Admin domain.User
	Token AccessToken
}

// Bootstrap creates the admin account when token matches and no users exist.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, params BootstrapParams) (BootstrapResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Check the shared secret.
	if !cryptox.TokensEqual(s.Token, token) {
		log.Warn("bootstrap rejected: invalid token")
		return BootstrapResult{}, apperrors.ErrUnauthenticated
	}

	// 2. Validate input.
	email, err := normalizeEmail(params.Email)
	if err != nil {
		return BootstrapResult{}, err
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return BootstrapResult{}, apperrors.Invalid("name is required")
	}
	if utf8.RuneCountInString(params.Password) < MinPasswordLength {
		return BootstrapResult{}, apperrors.Invalid("password must have at least 6 characters")
	}

	hash, err := s.Hasher.Hash(params.Password)
	if err != nil {
		return BootstrapResult{}, apperrors.Store(err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	admin := domain.User{
		ID:           idx.NewAt(now).String(),
		Name:         name,
		Email:        email,
		Role:         domain.RoleAdmin,
		Status:       domain.UserActive,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Only an empty store may be bootstrapped.
	errNotEmpty := errors.New("store not empty")
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return errNotEmpty
		}
		return tx.Users().CreateUser(ctx, admin)
	})
	switch {
	case errors.Is(err, errNotEmpty):
		log.Warn("bootstrap rejected: already bootstrapped")
		return BootstrapResult{}, apperrors.ErrAlreadyBootstrapped
	case err != nil:
		log.Error("failed to bootstrap", slog.Any("error", err))
		return BootstrapResult{}, apperrors.Store(err)
	}

	// 4. Sign the admin in.
	tok, err := s.Tokens.Issue(admin)
	if err != nil {
		log.Error("failed to issue admin token", slog.Any("error", err))
		return BootstrapResult{}, apperrors.Store(err)
	}

	log.Info("system bootstrapped", slog.String("admin_id", admin.ID))
	return BootstrapResult{Admin: admin, Token: tok}, nil
}
