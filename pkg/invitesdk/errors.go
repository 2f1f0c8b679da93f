package invitesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in ErrorResponse.Error.
const (
	CodeUnauthenticated           = "UNAUTHENTICATED"
	CodeForbidden                 = "FORBIDDEN"
	CodeInvitationNotFound        = "INVITATION_NOT_FOUND"
	CodeInvitationExpired         = "INVITATION_EXPIRED"
	CodeInvitationAlreadyAccepted = "INVITATION_ALREADY_ACCEPTED"
	CodeInvitationCancelled       = "INVITATION_CANCELLED"
	CodeInvitationNotPending      = "INVITATION_NOT_PENDING"
	CodeInvalidInput              = "INVALID_INPUT"
	CodeEmailTaken                = "EMAIL_TAKEN"
	CodeStore                     = "STORE_ERROR"
	CodeRegistrationIncomplete    = "REGISTRATION_INCOMPLETE"
	CodeAlreadyBootstrapped       = "ALREADY_BOOTSTRAPPED"
	CodeRateLimited               = "RATE_LIMITED"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Kind        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Description)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Kind:        errResp.Kind,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        CodeStore,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
