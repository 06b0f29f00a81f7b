package storage_test

import (
	"context"
	"testing"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage/drivers/memory"
	"github.com/stretchr/testify/require"
)

func TestSealedRoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	s, err := storage.NewSealed(inner, "correct horse battery staple")
	require.NoError(t, err)

	require.NoError(t, s.SetMany(ctx, map[string]string{
		storage.KeyAuthToken: "jwt-value",
		storage.KeySession:   `{"token":"jwt-value"}`,
	}))

	raw := inner.Snapshot()
	require.NotContains(t, raw[storage.KeyAuthToken], "jwt-value")
	require.NotContains(t, raw[storage.KeySession], "jwt-value")

	got, err := s.Get(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "jwt-value", got)

	require.NoError(t, s.Delete(ctx, storage.KeyAuthToken))
	_, err = s.Get(ctx, storage.KeyAuthToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSealedDetectsTampering(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	s, err := storage.NewSealed(inner, "passphrase")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, storage.KeyAuthToken, "jwt-value"))

	t.Run("value moved to another key", func(t *testing.T) {
		raw := inner.Snapshot()[storage.KeyAuthToken]
		require.NoError(t, inner.Set(ctx, storage.KeySession, raw))

		_, err := s.Get(ctx, storage.KeySession)
		require.ErrorIs(t, err, storage.ErrCorrupt)
	})

	t.Run("plaintext written underneath", func(t *testing.T) {
		require.NoError(t, inner.Set(ctx, storage.KeyUIPreferences, `{"theme":"dark"}`))

		_, err := s.Get(ctx, storage.KeyUIPreferences)
		require.ErrorIs(t, err, storage.ErrCorrupt)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		other, err := storage.NewSealed(inner, "different")
		require.NoError(t, err)

		_, err = other.Get(ctx, storage.KeyAuthToken)
		require.ErrorIs(t, err, storage.ErrCorrupt)
	})
}

func TestNewSealedRejectsEmptyPassphrase(t *testing.T) {
	_, err := storage.NewSealed(memory.NewStore(), "")
	require.Error(t, err)
}
