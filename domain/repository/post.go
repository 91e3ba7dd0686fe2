package repository

import (
	"context"

	"social-hub/domain/model"
)

// IPost persists publish attempts. Create writes the pending row before any
// adapter dispatch; Finalize is the single terminal mutation.
type IPost interface {
	Create(ctx context.Context, post *model.Post) error
	Finalize(ctx context.Context, postID, status string, platformPostIDs, errorDetails map[string]string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error)
}
