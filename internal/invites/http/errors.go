package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/i18n"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case apperrors.KindExpired:
		return http.StatusGone
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindPartialFailure:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the localized error payload for err.
func errorBody(r *http.Request, err error) invitesdk.ErrorResponse {
	code := apperrors.CodeOf(err)
	return invitesdk.ErrorResponse{
		Error:            string(code),
		Kind:             string(apperrors.KindOf(err)),
		ErrorDescription: i18n.ErrorMessage(i18n.Printer(i18n.ResolveTag(r)), code),
	}
}

// writeError writes err as a localized JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindStoreError {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
	}
	httpx.WriteJSON(w, statusFor(kind), errorBody(r, err))
}

// writeInvalid reports a malformed request body.
func writeInvalid(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Debug("invalid request", "err", err)
	writeError(w, r, apperrors.Invalid(err.Error()))
}
