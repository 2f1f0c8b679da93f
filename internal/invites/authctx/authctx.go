// Package authctx carries the authenticated caller through a request
// context. Transports populate it; services read it.
package authctx

import (
	"context"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
)

type ctxKey struct{}

// Caller is the identity behind a request.
type Caller struct {
	ID   string
	Role domain.Role
}

func (c Caller) IsAdmin() bool { return c.Role == domain.RoleAdmin }

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CallerFrom returns the caller and false when the context is anonymous.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	if !ok || c.ID == "" {
		return Caller{}, false
	}
	return c, true
}
