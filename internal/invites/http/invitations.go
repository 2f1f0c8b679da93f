package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/i18n"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
	Now               func() time.Time
}

func (h *InvitationsHandler) present(r *http.Request, inv domain.Invitation) invitesdk.Invitation {
	p := i18n.Printer(i18n.ResolveTag(r))
	return toInvitation(p, inv, h.InvitationService.GenerateLink(inv.Code), h.Now())
}

func (h *InvitationsHandler) presentList(r *http.Request, invs []domain.Invitation) invitesdk.InvitationListResponse {
	p := i18n.Printer(i18n.ResolveTag(r))
	now := h.Now()
	out := invitesdk.InvitationListResponse{Invitations: make([]invitesdk.Invitation, len(invs))}
	for i, inv := range invs {
		out.Invitations[i] = toInvitation(p, inv, h.InvitationService.GenerateLink(inv.Code), now)
	}
	return out
}

// HandleCreate issues an invitation.
//
//	@Summary		Create invitation
//	@Description	Admins invite analysts; analysts invite clients. The invitee receives the registration link by e-mail when mail is configured.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.CreateInvitationRequest	true	"Invitation details"
//	@Success		201		{object}	invitesdk.Invitation				"Invitation created"
//	@Failure		400		{object}	invitesdk.ErrorResponse				"Invalid request"
//	@Failure		401		{object}	invitesdk.ErrorResponse				"Missing or invalid token"
//	@Failure		403		{object}	invitesdk.ErrorResponse				"Caller may not invite this role"
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.CreateInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalid(w, r, err)
		return
	}

	inv, err := h.InvitationService.CreateInvitation(r.Context(), service.CreateInvitationParams{
		Email:         req.Email,
		Role:          domain.Role(req.Role),
		ExpiresInDays: req.ExpiresInDays,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, h.present(r, inv))
}

// HandleListMine lists the caller's invitations.
//
//	@Summary		List my invitations
//	@Description	Invitations created by the caller, newest first.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.InvitationListResponse
//	@Failure		401	{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	invs, err := h.InvitationService.ListMyInvitations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.presentList(r, invs))
}

// HandleListAll lists every invitation.
//
//	@Summary		List all invitations
//	@Description	Every invitation with inviter and acceptor details, newest first. Admin only.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.InvitationListResponse
//	@Failure		401	{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	invitesdk.ErrorResponse	"Caller is not an admin"
//	@Router			/v1/admin/invitations [get].
func (h *InvitationsHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	invs, err := h.InvitationService.ListAllInvitations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.presentList(r, invs))
}

// HandleLookup finds an invitation by code.
//
//	@Summary		Look up invitation
//	@Description	Public lookup used by the registration page. Valid is false once the invitation is accepted, cancelled or past its expiry.
//	@Tags			Invitations
//	@Produce		json
//	@Param			code	path		string	true	"Invitation code"
//	@Param			lang	query		string	false	"Response language (en, pt-BR)"
//	@Success		200		{object}	invitesdk.InvitationLookupResponse
//	@Failure		404		{object}	invitesdk.ErrorResponse	"Unknown code"
//	@Router			/v1/invitations/{code} [get].
func (h *InvitationsHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvitationService.GetInvitationByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if inv == nil {
		writeError(w, r, apperrors.ErrInvitationNotFound)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.InvitationLookupResponse{
		Invitation: h.present(r, *inv),
		Valid:      h.InvitationService.IsValid(inv),
	})
}

// HandleAccept accepts an invitation as the caller.
//
//	@Summary		Accept invitation
//	@Description	Accepts a pending, unexpired invitation. Accepting an analyst's client invitation links the caller to that analyst.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			code	path		string	true	"Invitation code"
//	@Success		200		{object}	invitesdk.Invitation	"Accepted invitation"
//	@Failure		401		{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Failure		404		{object}	invitesdk.ErrorResponse	"Unknown code"
//	@Failure		410		{object}	invitesdk.ErrorResponse	"Invitation expired"
//	@Failure		422		{object}	invitesdk.ErrorResponse	"Invitation already accepted or cancelled"
//	@Router			/v1/invitations/{code}/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvitationService.AcceptInvitation(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.present(r, inv))
}

// HandleCancel cancels a pending invitation.
//
//	@Summary		Cancel invitation
//	@Description	Cancels a pending invitation. Only its creator or an admin may cancel.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Invitation id"
//	@Success		200	{object}	invitesdk.Invitation	"Cancelled invitation"
//	@Failure		401	{object}	invitesdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	invitesdk.ErrorResponse	"Caller did not create the invitation"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"Unknown invitation"
//	@Failure		422	{object}	invitesdk.ErrorResponse	"Invitation is not pending"
//	@Router			/v1/invitations/id/{id}/cancel [post].
func (h *InvitationsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InvitationService.CancelInvitation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.present(r, inv))
}
