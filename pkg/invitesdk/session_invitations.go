package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateInvitation issues an invitation. Admins invite analysts and analysts
// invite clients.
func (s *Session) CreateInvitation(ctx context.Context, req CreateInvitationRequest) (*Invitation, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations", req)
	if err != nil {
		return nil, err
	}

	var out Invitation
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMyInvitations returns the invitations the caller created, newest first.
func (s *Session) ListMyInvitations(ctx context.Context) ([]Invitation, error) {
	return s.listInvitations(ctx, "/v1/invitations")
}

// ListAllInvitations returns every invitation. Admin only.
func (s *Session) ListAllInvitations(ctx context.Context) ([]Invitation, error) {
	return s.listInvitations(ctx, "/v1/admin/invitations")
}

func (s *Session) listInvitations(ctx context.Context, path string) ([]Invitation, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out InvitationListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Invitations, nil
}

// AcceptInvitation accepts the invitation as the session's user.
func (s *Session) AcceptInvitation(ctx context.Context, code string) (*Invitation, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations/"+url.PathEscape(code)+"/accept", nil)
	if err != nil {
		return nil, err
	}

	var out Invitation
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvitation cancels a pending invitation by id.
func (s *Session) CancelInvitation(ctx context.Context, id string) (*Invitation, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invitations/id/"+url.PathEscape(id)+"/cancel", nil)
	if err != nil {
		return nil, err
	}

	var out Invitation
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
