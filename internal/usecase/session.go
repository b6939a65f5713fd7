package usecase

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
)

// saveSession writes token and user in one store call so they are never persisted apart.
func saveSession(ctx context.Context, st store.Store, s *models.Session) error {
	userData, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := st.Set(ctx,
		store.Entry{Key: store.KeyUserToken, Value: s.Token},
		store.Entry{Key: store.KeyUserData, Value: string(userData)},
	); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func clearSession(ctx context.Context, st store.Store) error {
	if err := st.Remove(ctx, store.KeyUserToken, store.KeyUserData); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// requireToken returns the stored token or models.ErrUnauthenticated.
func requireToken(ctx context.Context, st store.Store) (string, error) {
	token, ok, err := st.Get(ctx, store.KeyUserToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return "", models.ErrUnauthenticated
	}
	return token, nil
}
