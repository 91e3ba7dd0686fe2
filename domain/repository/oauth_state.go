package repository

import (
	"context"

	"social-hub/domain/model"
)

// IOAuthState issues and redeems the anti-forgery tokens round-tripped
// through the provider redirect. Redeem is single use: a second redeem of
// the same token returns (nil, nil), as does an expired or unknown one.
type IOAuthState interface {
	Issue(ctx context.Context, userID, platform string) (string, error)
	Redeem(ctx context.Context, state string) (*model.OAuthState, error)
}
