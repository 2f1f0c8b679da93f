package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/aussiebroadwan/invitedesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{cryptox.TokenSize128, cryptox.TokenSize256, 24} {
		token, err := cryptox.GenerateToken(size)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, size)

		other, err := cryptox.GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, other)
	}
}

func TestGenerateTokenInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := cryptox.GenerateToken(size)
		require.Error(t, err)
	}
}

func TestFingerprintToken(t *testing.T) {
	require.Equal(t, cryptox.FingerprintToken("abc"), cryptox.FingerprintToken("abc"))
	require.NotEqual(t, cryptox.FingerprintToken("abc"), cryptox.FingerprintToken("abd"))
	require.Len(t, cryptox.FingerprintToken("abc"), 43)
}

func TestTokensEqual(t *testing.T) {
	require.True(t, cryptox.TokensEqual("s3cret", "s3cret"))
	require.False(t, cryptox.TokensEqual("s3cret", "s3cre"))
	require.False(t, cryptox.TokensEqual("", ""))
}
