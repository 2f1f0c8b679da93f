package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// BootstrapTokenHeader carries the shared bootstrap secret.
const BootstrapTokenHeader = "X-Bootstrap-Token"

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
	Now              func() time.Time
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the invitation service
//	@Description	Creates the first admin account and returns an access token for it. Only available when a bootstrap token is configured and only while no users exist.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		invitesdk.BootstrapRequest	true	"First admin account"
//	@Success		201					{object}	invitesdk.BootstrapResponse	"Admin created"
//	@Failure		400					{object}	invitesdk.ErrorResponse		"Invalid request body"
//	@Failure		401					{object}	invitesdk.ErrorResponse		"Missing or invalid bootstrap token"
//	@Failure		404					{object}	invitesdk.ErrorResponse		"Bootstrap not enabled"
//	@Failure		409					{object}	invitesdk.ErrorResponse		"System already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.BootstrapService == nil || h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, invitesdk.ErrorResponse{
			Error:            "BOOTSTRAP_DISABLED",
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Parse request body
	var req invitesdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalid(w, r, err)
		return
	}

	// 3. Perform bootstrap
	l.Info("bootstrapping")
	res, err := h.BootstrapService.Bootstrap(r.Context(), r.Header.Get(BootstrapTokenHeader), service.BootstrapParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 4. Respond with the admin id and its token (only shown once)
	httpx.WriteJSON(w, http.StatusCreated, invitesdk.BootstrapResponse{
		AdminUserID: res.Admin.ID,
		Token:       *toToken(&res.Token, h.Now()),
	})
}
