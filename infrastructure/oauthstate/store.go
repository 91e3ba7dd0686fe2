package oauthstate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"social-hub/domain/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StateTTL bounds how long a pending consent redirect stays redeemable.
const StateTTL = 10 * time.Minute

const keyPrefix = "oauth_state:"

// Store issues single-use anti-forgery state tokens. The token itself
// carries the (user, platform) payload; the nonce is persisted with a TTL
// so a token cannot be redeemed twice or after expiry. Redis backs the
// nonce set when available, an in-process map otherwise.
type Store struct {
	client redis.UniversalClient

	mu    sync.Mutex
	local map[string]time.Time
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client, local: map[string]time.Time{}}
}

func (s *Store) Issue(ctx context.Context, userID, platform string) (string, error) {
	payload := model.OAuthState{
		UserID:   userID,
		Platform: strings.ToLower(platform),
		Nonce:    uuid.NewString(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, payload.Nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Redeem decodes and consumes a state token. Unknown, expired or replayed
// tokens return (nil, nil); the caller decides how to report that.
func (s *Store) Redeem(ctx context.Context, state string) (*model.OAuthState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return nil, nil
	}
	var payload model.OAuthState
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil
	}
	ok, err := s.consume(ctx, payload.Nonce)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &payload, nil
}

func (s *Store) save(ctx context.Context, nonce string) error {
	if s.client != nil {
		if err := s.client.Set(ctx, keyPrefix+nonce, "1", StateTTL).Err(); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[nonce] = time.Now().Add(StateTTL)
	return nil
}

func (s *Store) consume(ctx context.Context, nonce string) (bool, error) {
	if nonce == "" {
		return false, nil
	}
	if s.client != nil {
		deleted, err := s.client.Del(ctx, keyPrefix+nonce).Result()
		if err != nil && err != redis.Nil {
			return false, fmt.Errorf("consume state: %w", err)
		}
		return deleted > 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.local[nonce]
	if !ok {
		return false, nil
	}
	delete(s.local, nonce)
	return time.Now().Before(exp), nil
}
