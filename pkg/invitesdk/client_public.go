package invitesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Bootstrap creates the first admin. It only succeeds once per deployment.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", req, map[string]string{
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPlans returns the plan catalog.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/plans", nil, nil)
	if err != nil {
		return nil, err
	}

	var out PlansResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

// LookupInvitation fetches an invitation by its code. Unknown codes yield an
// APIError with CodeInvitationNotFound.
func (c *Client) LookupInvitation(ctx context.Context, code string) (*InvitationLookupResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/invitations/"+url.PathEscape(code), nil, nil)
	if err != nil {
		return nil, err
	}

	var out InvitationLookupResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account from an invitation code.
//
// When the account was created but the invitation could not be accepted the
// response is returned together with an *APIError whose code is
// CodeRegistrationIncomplete.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/register", req, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusMultiStatus {
		var out RegisterResponse
		if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
			return nil, err
		}
		return &out, nil
	}

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	var partial struct {
		RegisterResponse
		ErrorResponse
	}
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &partial.RegisterResponse, &APIError{
		StatusCode:  resp.StatusCode,
		Code:        partial.Error,
		Kind:        partial.Kind,
		Description: partial.ErrorDescription,
	}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetJWKS fetches the public keys used to sign access tokens.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}
	return &jwks, nil
}
