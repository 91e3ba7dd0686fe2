package repository

import (
	"context"

	"social-hub/domain/model"
)

// IPlatformAdapter is the uniform capability set every social platform
// implements. BuildAuthorizationURL is pure construction with no network
// call; the state value binds (user, platform) against forgery.
type IPlatformAdapter interface {
	Platform() string
	BuildAuthorizationURL(userID, state string) (*model.AuthorizationPrompt, error)
	ExchangeCode(ctx context.Context, code string) (*model.PlatformCredential, error)
	Publish(ctx context.Context, conn *model.SocialConnection, content, imageURL string) (string, error)
}

// IPlatformRegistry resolves a platform tag to its adapter.
type IPlatformRegistry interface {
	Get(platform string) (IPlatformAdapter, bool)
	Platforms() []string
}
