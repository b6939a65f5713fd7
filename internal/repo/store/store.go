package store

import (
	"context"
	"errors"
)

// Keys persisted by the auth flow. They are always written and removed together.
const (
	KeyUserToken = "userToken"
	KeyUserData  = "userData"
)

var ErrEmptyKey = errors.New("store: empty key")

type Entry struct {
	Key   string
	Value string
}

// Store is an opaque string key-value store that survives restarts.
// Set and Remove apply all their keys or none of them.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, entries ...Entry) error
	Remove(ctx context.Context, keys ...string) error
}

func checkEntries(entries []Entry) error {
	for _, e := range entries {
		if e.Key == "" {
			return ErrEmptyKey
		}
	}
	return nil
}

func checkKeys(keys []string) error {
	for _, k := range keys {
		if k == "" {
			return ErrEmptyKey
		}
	}
	return nil
}
