package repository

import (
	"context"

	"social-hub/domain/model"
)

// ISocialConnection is the durable record of which platforms a user has
// authorized. Get returns (nil, nil) when no row exists.
type ISocialConnection interface {
	Get(ctx context.Context, userID, platform string) (*model.SocialConnection, error)
	ListActive(ctx context.Context, userID string, platforms []string) ([]*model.SocialConnection, error)
	Upsert(ctx context.Context, conn *model.SocialConnection) error
	Deactivate(ctx context.Context, userID, platform string) error
}
