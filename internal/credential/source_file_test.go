package credential

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	src := NewFileSource(path, "")
	ctx := context.Background()

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, src.Save(ctx, Credential{AccessToken: "A1", RefreshToken: "R1", ExpiresAt: exp}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err = src.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "A1", loaded.AccessToken)
	require.Equal(t, "R1", loaded.RefreshToken)
	require.True(t, loaded.ExpiresAt.Equal(exp))

	require.NoError(t, src.Clear(ctx))
	require.NoError(t, src.Clear(ctx))
	loaded, err = src.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestFileSourceEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()
	src := NewFileSource(path, "correct horse")

	require.NoError(t, src.Save(ctx, Credential{AccessToken: "secret-access", RefreshToken: "secret-refresh"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "secret-access"))

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "secret-access", loaded.AccessToken)

	_, err = NewFileSource(path, "wrong").Load(ctx)
	require.Error(t, err)

	loaded, err = NewFileSource(path, "").Load(ctx)
	require.ErrorContains(t, err, "passphrase required")
	require.Nil(t, loaded)
}

func TestStoreWatchPicksUpExternalLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	rec := &recorder{}
	s := NewStore(WithSource(NewFileSource(path, "")), WithPublisher(rec))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx))

	other := NewFileSource(path, "")
	require.NoError(t, other.Save(context.Background(), Credential{AccessToken: "A9", RefreshToken: "R9"}))

	require.Eventually(t, func() bool { return s.AccessToken() == "A9" }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, other.Clear(context.Background()))
	require.Eventually(t, func() bool { return !s.IsAuthenticated() }, 3*time.Second, 20*time.Millisecond)
}

func TestStoreWatchRejectsUnwatchableSource(t *testing.T) {
	s := NewStore()
	require.Error(t, s.Watch(context.Background()))
}
