package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/reuse/pkg/crypto"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
}

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cipher, err := crypto.NewClient(testKey())
	require.NoError(t, err)

	return map[string]Store{
		"memory":    NewMemoryStore(),
		"file":      fs,
		"redis":     NewRedisStore(rdb, "test:"),
		"encrypted": NewEncryptedStore(NewMemoryStore(), cipher),
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, KeyUserToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx,
				Entry{Key: KeyUserToken, Value: "tok-1"},
				Entry{Key: KeyUserData, Value: `{"id":"u1"}`},
			))

			v, ok, err := s.Get(ctx, KeyUserToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok-1", v)

			v, ok, err = s.Get(ctx, KeyUserData)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"id":"u1"}`, v)

			require.NoError(t, s.Set(ctx, Entry{Key: KeyUserToken, Value: "tok-2"}))
			v, _, err = s.Get(ctx, KeyUserToken)
			require.NoError(t, err)
			assert.Equal(t, "tok-2", v)

			require.NoError(t, s.Remove(ctx, KeyUserToken, KeyUserData))
			_, ok, err = s.Get(ctx, KeyUserToken)
			require.NoError(t, err)
			assert.False(t, ok)
			_, ok, err = s.Get(ctx, KeyUserData)
			require.NoError(t, err)
			assert.False(t, ok)

			// removing absent keys is not an error
			require.NoError(t, s.Remove(ctx, KeyUserToken))
		})
	}
}

func TestStore_EmptyKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Set(ctx, Entry{Key: KeyUserToken, Value: "x"}, Entry{Key: "", Value: "y"})
			assert.ErrorIs(t, err, ErrEmptyKey)

			// nothing from the rejected batch was written
			_, ok, err := s.Get(ctx, KeyUserToken)
			require.NoError(t, err)
			assert.False(t, ok)

			assert.ErrorIs(t, s.Remove(ctx, ""), ErrEmptyKey)
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, Entry{Key: KeyUserToken, Value: "persisted"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := s2.Get(ctx, KeyUserToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), KeyUserToken)
	assert.Error(t, err)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb, "reuse:")
	require.NoError(t, s.Set(context.Background(), Entry{Key: KeyUserToken, Value: "abc"}))

	got, err := mr.Get("reuse:" + KeyUserToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	s := NewRedisStore(rdb, "")
	_, _, err := s.Get(context.Background(), KeyUserToken)
	assert.Error(t, err)
}

func TestEncryptedStore_SealsValues(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cipher, err := crypto.NewClient(testKey())
	require.NoError(t, err)
	s := NewEncryptedStore(inner, cipher)

	require.NoError(t, s.Set(ctx, Entry{Key: KeyUserToken, Value: "secret-token"}))

	raw, ok, err := inner.Get(ctx, KeyUserToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "secret-token", raw)
	assert.NotContains(t, raw, "secret")

	require.NoError(t, inner.Set(ctx, Entry{Key: KeyUserData, Value: "tampered"}))
	_, _, err = s.Get(ctx, KeyUserData)
	assert.Error(t, err)
}
