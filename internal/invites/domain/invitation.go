package domain

import "time"

// DefaultExpiresInDays applies when an invitation is created without an
// explicit lifetime.
const DefaultExpiresInDays = 7

// MaxExpiresInDays is the longest lifetime an invitation may be given.
const MaxExpiresInDays = 365

type InvitationStatus string

const (
	StatusPending   InvitationStatus = "pending"
	StatusAccepted  InvitationStatus = "accepted"
	StatusExpired   InvitationStatus = "expired"
	StatusCancelled InvitationStatus = "cancelled"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s InvitationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusExpired || s == StatusCancelled
}

// CanTransition reports whether from -> to is an edge of the invitation state
// machine. Only pending invitations move, and only once.
func CanTransition(from, to InvitationStatus) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusAccepted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

type Invitation struct {
	ID            string
	Code          string
	Email         string
	Role          Role
	InvitedBy     string
	InvitedByRole Role
	Status        InvitationStatus
	ExpiresAt     time.Time
	AcceptedAt    *time.Time
	AcceptedBy    *string
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by the unscoped admin listing only.
	InviterName     string
	InviterEmail    string
	AcceptedByName  string
	AcceptedByEmail string
}

// IsValidAt reports whether the invitation can still be accepted at now.
// Expiry is evaluated lazily; a pending row past its deadline is not valid
// even though its stored status is still pending.
func (i Invitation) IsValidAt(now time.Time) bool {
	return i.Status == StatusPending && now.Before(i.ExpiresAt)
}

// EffectiveStatus is the status a reader should see at now.
func (i Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == StatusPending && !now.Before(i.ExpiresAt) {
		return StatusExpired
	}
	return i.Status
}

// LinksAnalystToClient reports whether accepting this invitation records an
// analyst-client association.
func (i Invitation) LinksAnalystToClient() bool {
	return i.Role == RoleClient && i.InvitedByRole == RoleAnalyst
}
