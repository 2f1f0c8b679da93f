package invitesdk

import (
	"time"

	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
)

// ============================================================================
// Errors
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the machine-readable code (e.g. "INVITATION_EXPIRED")
	Error string `json:"error"`

	// Kind groups codes into broad classes (e.g. "expired", "forbidden")
	Kind string `json:"kind,omitempty"`

	// ErrorDescription is localized for the request language
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Tokens
// ============================================================================

// TokenResponse carries an access token issued by bootstrap or registration.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ============================================================================
// Bootstrap
// ============================================================================

type BootstrapRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BootstrapResponse struct {
	AdminUserID string        `json:"admin_user_id"`
	Token       TokenResponse `json:"token"`
}

// ============================================================================
// Plans
// ============================================================================

// Unlimited is reported for limits without an upper bound.
const Unlimited = -1

type PlanLimits struct {
	Agents      int `json:"agents"`
	HistoryDays int `json:"historyDays"`
	Users       int `json:"users"`
}

type Plan struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Price    int        `json:"price"`
	Features []string   `json:"features"`
	Limits   PlanLimits `json:"limits"`
}

type PlansResponse struct {
	Plans []Plan `json:"plans"`
}

// ============================================================================
// Invitations
// ============================================================================

type CreateInvitationRequest struct {
	Email         string         `json:"email"`
	Role          string         `json:"role"`
	ExpiresInDays int            `json:"expires_in_days,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Invitation is the wire form of an invitation. StatusLabel and ExpiryText
// are localized for the request language.
type Invitation struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Email         string         `json:"email"`
	Role          string         `json:"role"`
	Status        string         `json:"status"`
	StatusLabel   string         `json:"status_label"`
	InvitedBy     string         `json:"invited_by"`
	InvitedByRole string         `json:"invited_by_role"`
	ExpiresAt     time.Time      `json:"expires_at"`
	ExpiryText    string         `json:"expiry_text"`
	AcceptedAt    *time.Time     `json:"accepted_at,omitempty"`
	AcceptedBy    *string        `json:"accepted_by,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Link          string         `json:"link"`

	// Admin listing only
	InviterName     string `json:"inviter_name,omitempty"`
	InviterEmail    string `json:"inviter_email,omitempty"`
	AcceptedByName  string `json:"accepted_by_name,omitempty"`
	AcceptedByEmail string `json:"accepted_by_email,omitempty"`
}

type InvitationListResponse struct {
	Invitations []Invitation `json:"invitations"`
}

// InvitationLookupResponse is returned by the public lookup. Valid tells the
// registration page whether the code can still be used.
type InvitationLookupResponse struct {
	Invitation Invitation `json:"invitation"`
	Valid      bool       `json:"valid"`
}

// ============================================================================
// Registration
// ============================================================================

type RegisterRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Phone           string `json:"phone,omitempty"`
	Organization    string `json:"organization,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterResponse struct {
	UserID       string         `json:"user_id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	Plan         string         `json:"plan"`
	InvitationID string         `json:"invitation_id"`
	Token        *TokenResponse `json:"token,omitempty"`
}

// ============================================================================
// Analyst clients
// ============================================================================

type ClientListResponse struct {
	ClientIDs []string `json:"client_ids"`
}

type HasClientResponse struct {
	HasClient bool `json:"has_client"`
}

// ============================================================================
// Caller permissions
// ============================================================================

type FeatureResponse struct {
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
}

type LimitResponse struct {
	Key     string `json:"key"`
	Current int    `json:"current"`
	Allowed bool   `json:"allowed"`
}

type MeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Plan         string `json:"plan,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// ============================================================================
// Health and keys
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse is the public key set used to verify access tokens.
type JWKSResponse jwtx.JWKS
