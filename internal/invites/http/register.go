package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
	Now                 func() time.Time
}

// registerPartial is the 207 body: the created account plus the reason the
// invitation was not accepted.
type registerPartial struct {
	invitesdk.RegisterResponse
	invitesdk.ErrorResponse
}

// ServeHTTP registers an account from an invitation code.
//
//	@Summary		Register from invitation
//	@Description	Creates the invitee's account and accepts the invitation as that account. A 207 response means the account exists but the invitation could not be accepted.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.RegisterRequest	true	"Registration form"
//	@Success		201		{object}	invitesdk.RegisterResponse	"Account created and invitation accepted"
//	@Success		207		{object}	invitesdk.RegisterResponse	"Account created, invitation not accepted"
//	@Failure		400		{object}	invitesdk.ErrorResponse		"Invalid form"
//	@Failure		404		{object}	invitesdk.ErrorResponse		"Unknown code"
//	@Failure		409		{object}	invitesdk.ErrorResponse		"Email already registered"
//	@Failure		410		{object}	invitesdk.ErrorResponse		"Invitation expired"
//	@Failure		422		{object}	invitesdk.ErrorResponse		"Invitation already accepted or cancelled"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalid(w, r, err)
		return
	}

	res, err := h.RegistrationService.Register(r.Context(), service.RegisterParams{
		Code:            req.Code,
		Name:            req.Name,
		Phone:           req.Phone,
		Organization:    req.Organization,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})

	out := invitesdk.RegisterResponse{
		UserID:       res.User.ID,
		Email:        res.User.Email,
		Role:         res.User.Role.String(),
		InvitationID: res.Invitation.ID,
		Token:        toToken(res.Token, h.Now()),
	}
	if res.User.Plan != nil {
		out.Plan = res.User.Plan.String()
	}

	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, out)
	case apperrors.IsKind(err, apperrors.KindPartialFailure):
		httpx.WriteJSON(w, http.StatusMultiStatus, registerPartial{
			RegisterResponse: out,
			ErrorResponse:    errorBody(r, err),
		})
	default:
		writeError(w, r, err)
	}
}
