package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/reuse/internal/config"
	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/activity"
	"github.com/nguyentranbao-ct/reuse/internal/repo/authapi"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

type authUsecase struct {
	api             authapi.Client
	store           store.Store
	validate        *validator.Validate
	recorder        activity.Recorder
	validateTimeout time.Duration
	log             *zap.SugaredLogger
}

func NewAuthUsecase(cfg *config.Config, api authapi.Client, st store.Store, validate *validator.Validate, recorder activity.Recorder) AuthUsecase {
	return &authUsecase{
		api:             api,
		store:           st,
		validate:        validate,
		recorder:        recorder,
		validateTimeout: cfg.Auth.ValidateTimeout,
		log:             logger.MustNamed("auth_usecase"),
	}
}

func (uc *authUsecase) Login(ctx context.Context, email, password string) (*models.Session, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	session, err := uc.api.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := saveSession(ctx, uc.store, session); err != nil {
		return nil, err
	}

	uc.record(ctx, models.ActivityLogin, session.User.ID)
	return session, nil
}

func (uc *authUsecase) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	session, err := uc.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := saveSession(ctx, uc.store, session); err != nil {
		return nil, err
	}

	uc.record(ctx, models.ActivityRegister, session.User.ID)
	return session, nil
}

// ValidateToken trusts the stored token while the server cannot be reached, and drops the
// session as soon as the server rejects it.
func (uc *authUsecase) ValidateToken(ctx context.Context) (bool, error) {
	token, ok, err := uc.store.Get(ctx, store.KeyUserToken)
	if err != nil {
		return false, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return false, nil
	}

	vctx, cancel := context.WithTimeout(ctx, uc.validateTimeout)
	defer cancel()

	err = uc.api.ValidateToken(vctx, token)
	var remote *models.RemoteError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &remote):
		uc.log.Infow("stored token rejected, clearing session", "status", remote.StatusCode)
		if err := clearSession(ctx, uc.store); err != nil {
			return false, err
		}
		uc.record(ctx, models.ActivitySessionInvalidated, "")
		return false, nil
	default:
		uc.log.Warnw("token validation unreachable, keeping session for offline use", "error", err)
		return true, nil
	}
}

func (uc *authUsecase) Logout(ctx context.Context) error {
	token, ok, err := uc.store.Get(ctx, store.KeyUserToken)
	if err != nil {
		uc.log.Warnw("failed to read token before logout", "error", err)
	}
	if ok && token != "" {
		if err := uc.api.Logout(ctx, token); err != nil {
			uc.log.Warnw("remote logout failed", "error", err)
		}
	}

	if err := clearSession(ctx, uc.store); err != nil {
		return err
	}
	uc.record(ctx, models.ActivityLogout, "")
	return nil
}

func (uc *authUsecase) CurrentSession(ctx context.Context) (*models.Session, error) {
	token, err := requireToken(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	userData, ok, err := uc.store.Get(ctx, store.KeyUserData)
	if err != nil {
		return nil, fmt.Errorf("read user data: %w", err)
	}
	if !ok {
		return nil, models.ErrUnauthenticated
	}

	session := &models.Session{Token: token}
	if err := json.Unmarshal([]byte(userData), &session.User); err != nil {
		return nil, fmt.Errorf("decode user data: %w", err)
	}
	return session, nil
}

func (uc *authUsecase) record(ctx context.Context, action models.ActivityAction, userID string) {
	if err := uc.recorder.Record(ctx, models.Activity{Action: action, UserID: userID}); err != nil {
		uc.log.Errorw("failed to record activity", "action", action, "error", err)
	}
}
