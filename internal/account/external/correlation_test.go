package external

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/account/pkg/ticketx"
)

func TestCorrelation(t *testing.T) {
	secret := []byte("correlation-test-secret-0123456789")
	codec, err := ticketx.NewJWECodec(secret, ticketx.PurposeCorrelation, 5*time.Minute)
	require.NoError(t, err)

	c, err := NewCorrelation("Google", "provider=Google&response_type=token")
	require.NoError(t, err)
	require.NotEmpty(t, c.State)
	require.NotEmpty(t, c.Verifier)

	sealed, err := c.Protect(codec)
	require.NoError(t, err)

	got, err := UnprotectCorrelation(codec, sealed, "google", c.State)
	require.NoError(t, err)
	require.Equal(t, c, got)

	t.Run("state mismatch", func(t *testing.T) {
		_, err := UnprotectCorrelation(codec, sealed, "Google", "other")
		require.ErrorIs(t, err, ErrBadCorrelation)
	})

	t.Run("provider mismatch", func(t *testing.T) {
		_, err := UnprotectCorrelation(codec, sealed, "GitHub", c.State)
		require.ErrorIs(t, err, ErrBadCorrelation)
	})

	t.Run("sealed for another purpose", func(t *testing.T) {
		other, err := ticketx.NewJWECodec(secret, ticketx.PurposeExternalCookie, 5*time.Minute)
		require.NoError(t, err)
		_, err = UnprotectCorrelation(other, sealed, "Google", c.State)
		require.ErrorIs(t, err, ErrBadCorrelation)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := UnprotectCorrelation(codec, "not-a-cookie", "Google", c.State)
		require.ErrorIs(t, err, ErrBadCorrelation)
	})
}
