package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/invitedesk/internal/invites/apperrors"
	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
	"github.com/aussiebroadwan/invitedesk/pkg/retryx"
)

type AnalystClientsHandler struct {
	AnalystClientService *service.AnalystClientService
	Retry                retryx.Policy
}

// canRead allows admins and the analyst themself.
func canRead(ctx context.Context, analystID string) bool {
	caller, ok := authctx.CallerFrom(ctx)
	return ok && (caller.IsAdmin() || caller.ID == analystID)
}

// HandleList lists an analyst's client ids.
//
//	@Summary		List analyst clients
//	@Description	Client ids linked to the analyst, sorted. Admins may read any analyst; analysts only themselves.
//	@Tags			Analyst clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Analyst id"
//	@Success		200	{object}	invitesdk.ClientListResponse
//	@Failure		403	{object}	invitesdk.ErrorResponse	"Not allowed to read this analyst"
//	@Router			/v1/analysts/{id}/clients [get].
func (h *AnalystClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	analystID := r.PathValue("id")
	if !canRead(r.Context(), analystID) {
		writeError(w, r, apperrors.ErrForbidden)
		return
	}

	ids, err := retryx.DoValue(r.Context(), h.Retry, func(ctx context.Context) ([]string, error) {
		return h.AnalystClientService.ListClientIDs(ctx, analystID)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitesdk.ClientListResponse{ClientIDs: ids})
}

// HandleHas checks a single analyst-client link.
//
//	@Summary		Check analyst client
//	@Tags			Analyst clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string	true	"Analyst id"
//	@Param			clientID	path		string	true	"Client id"
//	@Success		200			{object}	invitesdk.HasClientResponse
//	@Failure		403			{object}	invitesdk.ErrorResponse	"Not allowed to read this analyst"
//	@Router			/v1/analysts/{id}/clients/{clientID} [get].
func (h *AnalystClientsHandler) HandleHas(w http.ResponseWriter, r *http.Request) {
	analystID := r.PathValue("id")
	if !canRead(r.Context(), analystID) {
		writeError(w, r, apperrors.ErrForbidden)
		return
	}

	ok, err := h.AnalystClientService.HasClient(r.Context(), analystID, r.PathValue("clientID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitesdk.HasClientResponse{HasClient: ok})
}

// HandleAdd links a client to an analyst.
//
//	@Summary		Add analyst client
//	@Description	Links the client to the analyst. Linking an existing pair succeeds. Admin only.
//	@Tags			Analyst clients
//	@Security		BearerAuth
//	@Param			id			path	string	true	"Analyst id"
//	@Param			clientID	path	string	true	"Client id"
//	@Success		204
//	@Failure		500	{object}	invitesdk.ErrorResponse	"Link could not be stored"
//	@Router			/v1/analysts/{id}/clients/{clientID} [put].
func (h *AnalystClientsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if !h.AnalystClientService.AddClient(r.Context(), r.PathValue("id"), r.PathValue("clientID")) {
		writeError(w, r, apperrors.New(apperrors.KindStoreError, apperrors.CodeStore, "add analyst client failed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemove unlinks a client from an analyst.
//
//	@Summary		Remove analyst client
//	@Description	Removes the link. Removing a missing pair succeeds. Admin only.
//	@Tags			Analyst clients
//	@Security		BearerAuth
//	@Param			id			path	string	true	"Analyst id"
//	@Param			clientID	path	string	true	"Client id"
//	@Success		204
//	@Failure		500	{object}	invitesdk.ErrorResponse	"Link could not be removed"
//	@Router			/v1/analysts/{id}/clients/{clientID} [delete].
func (h *AnalystClientsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if !h.AnalystClientService.RemoveClient(r.Context(), r.PathValue("id"), r.PathValue("clientID")) {
		writeError(w, r, apperrors.New(apperrors.KindStoreError, apperrors.CodeStore, "remove analyst client failed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
