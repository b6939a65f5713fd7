package store

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/reuse/pkg/crypto"
)

type encryptedStore struct {
	next   Store
	cipher crypto.Client
}

// NewEncryptedStore seals values with AES-GCM before handing them to next. Keys stay in clear.
func NewEncryptedStore(next Store, cipher crypto.Client) Store {
	return &encryptedStore{next: next, cipher: cipher}
}

func (s *encryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.next.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.cipher.Decrypt(v)
	if err != nil {
		return "", false, fmt.Errorf("decrypt %s: %w", key, err)
	}
	return plain, true, nil
}

func (s *encryptedStore) Set(ctx context.Context, entries ...Entry) error {
	sealed := make([]Entry, len(entries))
	for i, e := range entries {
		v, err := s.cipher.Encrypt(e.Value)
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", e.Key, err)
		}
		sealed[i] = Entry{Key: e.Key, Value: v}
	}
	return s.next.Set(ctx, sealed...)
}

func (s *encryptedStore) Remove(ctx context.Context, keys ...string) error {
	return s.next.Remove(ctx, keys...)
}
