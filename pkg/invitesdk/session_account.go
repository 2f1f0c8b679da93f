package invitesdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Me returns the session's user.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/me", nil)
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// HasFeature asks whether the session's user may use feature.
func (s *Session) HasFeature(ctx context.Context, feature string) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/me/features/"+url.PathEscape(feature), nil)
	if err != nil {
		return false, err
	}

	var out FeatureResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Allowed, nil
}

// WithinLimit asks whether the session's user may consume one more unit of
// key given current units in use.
func (s *Session) WithinLimit(ctx context.Context, key string, current int) (bool, error) {
	path := "/v1/me/limits/" + url.PathEscape(key) + "?current=" + strconv.Itoa(current)
	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}

	var out LimitResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Allowed, nil
}
