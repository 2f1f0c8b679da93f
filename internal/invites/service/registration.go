package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/aussiebroadwan/invitedesk/pkg/idx"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

const MinPasswordLength = 6

// RegistrationService turns a valid invitation into an account.
type RegistrationService struct {
	Store       store.Store
	Invitations *InvitationService
	Hasher      cryptox.Hasher
	Tokens      *TokenIssuer // optional
	Now         func() time.Time
}

type RegisterParams struct {
	Code            string
	Name            string
	Phone           string
	Organization    string
	Password        string
	ConfirmPassword string
}

type RegistrationResult struct {
	User       domain.User
	Invitation domain.Invitation
	Token      *AccessToken
}

// Register creates the account and accepts the invitation as the new user.
// When the account was created but acceptance failed the returned result
// still carries the user and its access token, and the error matches
// apperrors.ErrRegistrationIncomplete.
func (s *RegistrationService) Register(ctx context.Context, params RegisterParams) (RegistrationResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the form.
	if err := validateRegistration(&params); err != nil {
		return RegistrationResult{}, err
	}

	// 2. The invitation must exist and still be acceptable.
	inv, err := s.Invitations.GetInvitationByCode(ctx, params.Code)
	if err != nil {
		return RegistrationResult{}, err
	}
	if inv == nil {
		return RegistrationResult{}, apperrors.ErrInvitationNotFound
	}
	if !s.Invitations.IsValid(inv) {
		return RegistrationResult{}, invalidInvitationError(*inv, s.Invitations.now())
	}

	// 3. Create the account.
	hash, err := s.Hasher.Hash(params.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return RegistrationResult{}, apperrors.Store(err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	plan := planFromMetadata(inv.Metadata)
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Name:         params.Name,
		Email:        inv.Email,
		Phone:        params.Phone,
		Organization: params.Organization,
		Role:         inv.Role,
		Plan:         &plan,
		Status:       domain.UserActive,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration rejected: email already registered",
				slog.String("invitation_id", inv.ID),
			)
			return RegistrationResult{}, withCause(apperrors.ErrEmailTaken, err)
		}
		log.Error("failed to create user", slog.Any("error", err))
		return RegistrationResult{}, apperrors.Store(err)
	}

	// 4. Sign the new user in. The token also lets the invitee retry the
	// accept if the next step fails.
	result := RegistrationResult{User: user}
	if s.Tokens != nil {
		tok, err := s.Tokens.Issue(user)
		if err != nil {
			log.Error("failed to issue access token", slog.String("user_id", user.ID), slog.Any("error", err))
		} else {
			result.Token = &tok
		}
	}

	// 5. Accept the invitation as the new user.
	asUser := authctx.WithCaller(ctx, authctx.Caller{ID: user.ID, Role: user.Role})
	accepted, err := s.Invitations.AcceptInvitation(asUser, inv.Code)
	if err != nil {
		log.Warn("account created but invitation not accepted",
			slog.String("user_id", user.ID),
			slog.String("invitation_id", inv.ID),
			slog.Bool("token_issued", result.Token != nil),
			slog.Any("error", err),
		)
		return result, withCause(apperrors.ErrRegistrationIncomplete, err)
	}
	result.Invitation = accepted

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
		slog.String("plan", plan.String()),
	)
	return result, nil
}

// invalidInvitationError explains why inv cannot be used at now.
func invalidInvitationError(inv domain.Invitation, now time.Time) error {
	switch inv.EffectiveStatus(now) {
	case domain.StatusAccepted:
		return apperrors.ErrInvitationAlreadyAccepted
	case domain.StatusCancelled:
		return apperrors.ErrInvitationCancelled
	case domain.StatusExpired:
		return apperrors.ErrInvitationExpired
	default:
		return apperrors.ErrInvitationNotPending
	}
}

func validateRegistration(p *RegisterParams) error {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Organization = strings.TrimSpace(p.Organization)
	p.Phone = strings.TrimSpace(p.Phone)

	switch {
	case p.Code == "":
		return apperrors.Invalid("invitation code is required")
	case p.Password != p.ConfirmPassword:
		return apperrors.Invalid("passwords do not match")
	case utf8.RuneCountInString(p.Password) < MinPasswordLength:
		return apperrors.Invalid("password must have at least 6 characters")
	case p.Name == "":
		return apperrors.Invalid("name is required")
	}

	if p.Phone != "" {
		digits, ok := phoneDigits(p.Phone)
		if !ok {
			return apperrors.Invalid("phone must have 10 or 11 digits")
		}
		p.Phone = digits
	}
	return nil
}

// phoneDigits strips formatting from a Brazilian phone number and checks it
// has 10 (landline) or 11 (mobile) digits.
func phoneDigits(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(" ()-+.", r):
		default:
			return "", false
		}
	}
	n := b.Len()
	return b.String(), n == 10 || n == 11
}
