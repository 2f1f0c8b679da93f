package service

import (
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
)

// AccessToken is a signed bearer token handed to a freshly created account.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs access tokens carrying the user's role.
type TokenIssuer struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (t *TokenIssuer) Issue(u domain.User) (AccessToken, error) {
	now := time.Now().UTC()
	if t.Now != nil {
		now = t.Now().UTC()
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(u.ID, u.Role.String(), u.Name, u.Email, t.Issuer, nil, ttl, now)
	signed, err := t.Signer.Sign(claims)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}
