// Package i18n localizes the user-facing strings of the invitation service:
// error descriptions, invitation status labels and expiry texts.
package i18n

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// PortugueseBR is the original product language.
var PortugueseBR = language.MustParse("pt-BR")

var supportedTags = []language.Tag{
	language.English,
	PortugueseBR,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag picks the best supported language for the request, preferring
// the lang query parameter over Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}

	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			matched, _, _ := tagMatcher.Match(tag)
			return matched
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			matched, _, _ := tagMatcher.Match(tags...)
			return matched
		}
	}

	return Default()
}

// ErrorMessage returns the localized description for an error code.
// Unknown codes fall back to the generic internal error text.
func ErrorMessage(p *message.Printer, code apperrors.Code) string {
	if !HasErrorMessage(code) {
		code = apperrors.CodeStore
	}
	return p.Sprintf(errorKey(code))
}

// StatusLabel returns the localized label of an invitation status.
func StatusLabel(p *message.Printer, s domain.InvitationStatus) string {
	switch s {
	case domain.StatusPending:
		return p.Sprintf("status.pending")
	case domain.StatusAccepted:
		return p.Sprintf("status.accepted")
	case domain.StatusExpired:
		return p.Sprintf("status.expired")
	case domain.StatusCancelled:
		return p.Sprintf("status.cancelled")
	default:
		return string(s)
	}
}

// DaysUntil is the number of started days between now and expiresAt,
// rounded up. It is negative once the deadline has passed.
func DaysUntil(expiresAt, now time.Time) int {
	diff := expiresAt.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// ExpiryText describes how long an invitation has left. A passed deadline is
// always expired, and a deadline later on now's calendar date is today.
func ExpiryText(p *message.Printer, expiresAt, now time.Time) string {
	if !now.Before(expiresAt) {
		return p.Sprintf("expiry.expired")
	}
	if sameDate(expiresAt.In(now.Location()), now) {
		return p.Sprintf("expiry.today")
	}

	days := DaysUntil(expiresAt, now)
	if days == 1 {
		return p.Sprintf("expiry.tomorrow")
	}
	return p.Sprintf("expiry.days", days)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func errorKey(code apperrors.Code) string {
	return "error." + string(code)
}

// RoleLabel returns the localized name of an invitable role.
func RoleLabel(p *message.Printer, r domain.Role) string {
	switch r {
	case domain.RoleAnalyst:
		return p.Sprintf("role.analyst")
	case domain.RoleClient:
		return p.Sprintf("role.client")
	default:
		return string(r)
	}
}

// InvitationEmail renders the subject and plain text body of the message
// sent to an invitee.
func InvitationEmail(p *message.Printer, inv domain.Invitation, link string, now time.Time) (subject, body string) {
	role := RoleLabel(p, inv.Role)
	subject = p.Sprintf("mail.subject", role)
	body = p.Sprintf("mail.body", role, link, ExpiryText(p, inv.ExpiresAt, now))
	return subject, body
}
