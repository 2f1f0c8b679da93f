package invites_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterRateLimit verifies the strict profile throttles registration
// attempts from one address.
func TestRegisterRateLimit(t *testing.T) {
	client := setupContainerWithDefaultRateLimits(t)

	limited := 0
	for range 10 {
		_, err := client.Register(t.Context(), invitesdk.RegisterRequest{
			Code: "guess", Name: "Guesser", Password: "secret1", ConfirmPassword: "secret1",
		})
		require.Error(t, err)

		var apiErr *invitesdk.APIError
		require.True(t, errors.As(err, &apiErr))
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			require.Equal(t, invitesdk.CodeRateLimited, apiErr.Code)
			limited++
		case http.StatusNotFound:
		default:
			t.Fatalf("unexpected status %d (%s)", apiErr.StatusCode, apiErr.Code)
		}
	}

	require.Positive(t, limited, "strict profile should reject some of 10 rapid attempts")
}
