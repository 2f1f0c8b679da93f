package service

import (
	"errors"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
)

// withCause returns a copy of sentinel carrying cause, so errors.Is matches
// the sentinel and errors.Unwrap reaches the driver error.
func withCause(sentinel *apperrors.Error, cause error) error {
	return apperrors.Wrap(sentinel.Kind, sentinel.Code, sentinel.Message, cause)
}

// mapInvitationError translates store outcomes of invitation operations.
func mapInvitationError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return withCause(apperrors.ErrInvitationNotFound, err)
	case errors.Is(err, store.ErrExpired):
		return withCause(apperrors.ErrInvitationExpired, err)
	case errors.Is(err, store.ErrAlreadyAccepted):
		return withCause(apperrors.ErrInvitationAlreadyAccepted, err)
	case errors.Is(err, store.ErrCancelled):
		return withCause(apperrors.ErrInvitationCancelled, err)
	case errors.Is(err, store.ErrNotPending):
		return withCause(apperrors.ErrInvitationNotPending, err)
	case errors.Is(err, store.ErrNotInviter):
		return withCause(apperrors.ErrForbidden, err)
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Store(err)
}
