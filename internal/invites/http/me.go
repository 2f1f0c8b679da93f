package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
)

type MeHandler struct {
	AccountService *service.AccountService
}

// HandleMe returns the caller's profile.
//
//	@Summary		Current user
//	@Tags			Me
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.MeResponse
//	@Failure		401	{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Router			/v1/me [get].
func (h *MeHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.AccountService.Me(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := invitesdk.MeResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role.String(),
		Phone:        u.Phone,
		Organization: u.Organization,
	}
	if u.Plan != nil {
		out.Plan = u.Plan.String()
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleFeature checks feature access for the caller's plan.
//
//	@Summary		Check feature access
//	@Tags			Me
//	@Produce		json
//	@Security		BearerAuth
//	@Param			feature	path		string	true	"Feature name, matched case-insensitively against plan features"
//	@Success		200		{object}	invitesdk.FeatureResponse
//	@Failure		401		{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Router			/v1/me/features/{feature} [get].
func (h *MeHandler) HandleFeature(w http.ResponseWriter, r *http.Request) {
	feature := r.PathValue("feature")
	ok, err := h.AccountService.HasFeature(r.Context(), feature)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitesdk.FeatureResponse{Feature: feature, Allowed: ok})
}

// HandleLimit checks a plan limit for the caller.
//
//	@Summary		Check plan limit
//	@Description	Allowed is true when one more unit fits under the limit given current units in use.
//	@Tags			Me
//	@Produce		json
//	@Security		BearerAuth
//	@Param			key		path		string	true	"Limit key (agents, historyDays, users)"
//	@Param			current	query		int		false	"Units already in use"
//	@Success		200		{object}	invitesdk.LimitResponse
//	@Failure		400		{object}	invitesdk.ErrorResponse	"Unknown limit or bad current value"
//	@Failure		401		{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Router			/v1/me/limits/{key} [get].
func (h *MeHandler) HandleLimit(w http.ResponseWriter, r *http.Request) {
	key := domain.LimitKey(r.PathValue("key"))

	current := 0
	if raw := r.URL.Query().Get("current"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, apperrors.Invalid("current must be a non-negative integer"))
			return
		}
		current = n
	}

	ok, err := h.AccountService.WithinLimit(r.Context(), key, current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitesdk.LimitResponse{Key: string(key), Current: current, Allowed: ok})
}
