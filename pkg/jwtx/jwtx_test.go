package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("k", 32))

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "renart-api")
	require.NoError(t, err)

	now := time.Now()
	raw, err := h.Sign(jwtx.NewAccessClaims("vendor-1", "vendor@renart.com", "renart-api", time.Minute, now))
	require.NoError(t, err)

	claims, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "vendor-1", claims.Subject)
	require.Equal(t, "vendor@renart.com", claims.Email)
	require.Equal(t, "vendor", claims.Role)
	require.NoError(t, claims.ValidateExpiry())
}

func TestHS256Rejects(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "renart-api")
	require.NoError(t, err)

	t.Run("weak secret", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte("short"), "")
		require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	})

	t.Run("expired", func(t *testing.T) {
		raw, err := h.Sign(jwtx.NewAccessClaims("v", "e", "renart-api", time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		raw, err := h.Sign(jwtx.NewAccessClaims("v", "e", "someone-else", time.Minute, time.Now()))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte(strings.Repeat("x", 32)), "renart-api")
		require.NoError(t, err)
		raw, err := other.Sign(jwtx.NewAccessClaims("v", "e", "renart-api", time.Minute, time.Now()))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("a.b.c")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestExpiresAt(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "")
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	raw, err := h.Sign(jwtx.NewAccessClaims("v", "e", "", time.Hour, now))
	require.NoError(t, err)

	exp, err := jwtx.ExpiresAt(raw)
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	exp, err = jwtx.ExpiresAt("opaque-session-token")
	require.NoError(t, err)
	require.True(t, exp.IsZero())

	exp, err = jwtx.ExpiresAt("")
	require.NoError(t, err)
	require.True(t, exp.IsZero())

	_, err = jwtx.ExpiresAt("not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
