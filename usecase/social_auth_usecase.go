package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/logger"
)

// ISocialAuthUsecase drives the connection lifecycle: consent initiation,
// callback exchange and disconnect.
type ISocialAuthUsecase interface {
	Connect(ctx context.Context, userID, platform string) (*model.AuthorizationPrompt, error)
	Callback(ctx context.Context, userID, code, state string) error
	Disconnect(ctx context.Context, userID, platform string) error
	ListConnections(ctx context.Context, userID string) ([]*model.SocialConnection, error)
}

type socialAuthUsecase struct {
	connRepo repository.ISocialConnection
	states   repository.IOAuthState
	registry repository.IPlatformRegistry
}

func NewSocialAuthUsecase(connRepo repository.ISocialConnection, states repository.IOAuthState, registry repository.IPlatformRegistry) ISocialAuthUsecase {
	return &socialAuthUsecase{connRepo: connRepo, states: states, registry: registry}
}

// Connect builds the provider authorization prompt. Nothing is written to
// the connection store here; the connection only materializes on callback.
func (u *socialAuthUsecase) Connect(ctx context.Context, userID, platform string) (*model.AuthorizationPrompt, error) {
	adapter, ok := u.registry.Get(platform)
	if !ok {
		return nil, model.ValidationError("unsupported platform: " + platform)
	}
	state, err := u.states.Issue(ctx, userID, platform)
	if err != nil {
		return nil, err
	}
	return adapter.BuildAuthorizationURL(userID, state)
}

// Callback completes the consent flow. The state must decode to the caller
// completing it; a mismatch is a forgery signal and leaves any existing
// connection untouched.
func (u *socialAuthUsecase) Callback(ctx context.Context, userID, code, state string) error {
	if code == "" {
		return model.ValidationError("missing code")
	}
	payload, err := u.states.Redeem(ctx, state)
	if err != nil {
		return err
	}
	if payload == nil {
		return model.ValidationError("invalid or expired state")
	}
	if payload.UserID != userID {
		return model.ErrForgery
	}
	adapter, ok := u.registry.Get(payload.Platform)
	if !ok {
		return model.ValidationError("unsupported platform: " + payload.Platform)
	}

	cred, err := adapter.ExchangeCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrProviderRejected) || errors.Is(err, model.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: %v", model.ErrProviderRejected, err)
	}

	conn := &model.SocialConnection{
		UserID:           userID,
		Platform:         payload.Platform,
		PlatformUserID:   cred.PlatformUserID,
		PlatformUsername: cred.PlatformUsername,
		AccessToken:      cred.AccessToken,
		RefreshToken:     cred.RefreshToken,
		IsActive:         true,
		Metadata:         cred.Metadata,
	}
	if cred.ExpiresIn > 0 {
		expiresAt := time.Now().UTC().Add(time.Duration(cred.ExpiresIn) * time.Second)
		conn.TokenExpiresAt = &expiresAt
	}
	if err := u.connRepo.Upsert(ctx, conn); err != nil {
		return err
	}
	logger.GetLogger().
		WithField("user_id", userID).
		WithField("platform", payload.Platform).
		Info("social connection established")
	return nil
}

// Disconnect deactivates the stored connection. Disconnecting a platform
// that was never connected is a no-op success.
func (u *socialAuthUsecase) Disconnect(ctx context.Context, userID, platform string) error {
	if _, ok := u.registry.Get(platform); !ok {
		return model.ValidationError("unsupported platform: " + platform)
	}
	return u.connRepo.Deactivate(ctx, userID, platform)
}

func (u *socialAuthUsecase) ListConnections(ctx context.Context, userID string) ([]*model.SocialConnection, error) {
	return u.connRepo.ListActive(ctx, userID, u.registry.Platforms())
}
