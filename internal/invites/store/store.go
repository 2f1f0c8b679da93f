package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// Returned by the conditional invitation transitions when no row was
	// updated, after re-reading the row to find out why.
	ErrExpired         = errors.New("store: invitation expired")
	ErrAlreadyAccepted = errors.New("store: invitation already accepted")
	ErrCancelled       = errors.New("store: invitation cancelled")
	ErrNotPending      = errors.New("store: invitation not pending")
	ErrNotInviter      = errors.New("store: caller is not the inviter")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories obtained from a Tx run inside that
// transaction; the ones obtained from the Store do not.
type Store interface {
	Invitations() Invitations
	AnalystClients() AnalystClients
	Users() Users

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the store.
type Tx interface {
	Invitations() Invitations
	AnalystClients() AnalystClients
	Users() Users
}

type Invitations interface {
	// CreateInvitation inserts a pending invitation and returns the stored row.
	CreateInvitation(ctx context.Context, inv domain.Invitation) (domain.Invitation, error)

	GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error)
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// ListInvitationsByInviter returns invitations created by inviterID,
	// newest first.
	ListInvitationsByInviter(ctx context.Context, inviterID string) ([]domain.Invitation, error)

	// ListAllInvitations returns every invitation, newest first, with inviter
	// and acceptor names joined in.
	ListAllInvitations(ctx context.Context) ([]domain.Invitation, error)

	// AcceptInvitation atomically moves a pending, unexpired invitation to
	// accepted. When nothing was updated it reports ErrNotFound, ErrExpired,
	// ErrAlreadyAccepted or ErrCancelled.
	AcceptInvitation(ctx context.Context, code, userID string, now time.Time) (domain.Invitation, error)

	// CancelInvitation atomically moves a pending invitation to cancelled when
	// callerID created it or privileged is set. When nothing was updated it
	// reports ErrNotFound, ErrNotInviter or ErrNotPending.
	CancelInvitation(ctx context.Context, id, callerID string, privileged bool, now time.Time) (domain.Invitation, error)
}

type AnalystClients interface {
	Has(ctx context.Context, analystID, clientID string) (bool, error)

	// ListClientIDs returns distinct client ids, sorted.
	ListClientIDs(ctx context.Context, analystID string) ([]string, error)

	// Add inserts the pair; an existing pair is left untouched.
	Add(ctx context.Context, analystID, clientID string, now time.Time) error

	// Remove deletes the pair; a missing pair is not an error.
	Remove(ctx context.Context, analystID, clientID string) error
}

type Users interface {
	// CreateUser inserts a new user. A duplicate email is ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// TouchLastLogin records a successful sign-in.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

// ClassifyUnchanged explains why a conditional accept updated nothing, given
// the row as it stands now.
func ClassifyUnchanged(inv domain.Invitation, now time.Time) error {
	switch inv.Status {
	case domain.StatusAccepted:
		return ErrAlreadyAccepted
	case domain.StatusCancelled:
		return ErrCancelled
	case domain.StatusExpired:
		return ErrExpired
	default:
		if !now.Before(inv.ExpiresAt) {
			return ErrExpired
		}
		return ErrNotPending
	}
}
