package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

func clientPath(analystID, clientID string) string {
	p := "/v1/analysts/" + url.PathEscape(analystID) + "/clients"
	if clientID != "" {
		p += "/" + url.PathEscape(clientID)
	}
	return p
}

// ListClients returns the client ids linked to an analyst.
func (s *Session) ListClients(ctx context.Context, analystID string) ([]string, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, clientPath(analystID, ""), nil)
	if err != nil {
		return nil, err
	}

	var out ClientListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.ClientIDs, nil
}

// HasClient reports whether clientID is linked to analystID.
func (s *Session) HasClient(ctx context.Context, analystID, clientID string) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, clientPath(analystID, clientID), nil)
	if err != nil {
		return false, err
	}

	var out HasClientResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.HasClient, nil
}

// AddClient links clientID to analystID. Admin only.
func (s *Session) AddClient(ctx context.Context, analystID, clientID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, clientPath(analystID, clientID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// RemoveClient unlinks clientID from analystID. Admin only.
func (s *Session) RemoveClient(ctx context.Context, analystID, clientID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, clientPath(analystID, clientID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
