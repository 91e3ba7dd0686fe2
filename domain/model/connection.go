package model

import (
	"encoding/json"
	"time"
)

// Supported social platforms. Adding a platform means registering one more
// adapter in the platform registry; nothing here needs to change.
const (
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
	PlatformTelegram  = "telegram"
	PlatformInstagram = "instagram"
)

// SocialConnection stores a user's delegated credential for one platform.
// At most one active row exists per (user_id, platform); a disconnect flips
// is_active instead of deleting so history is preserved.
type SocialConnection struct {
	ID               int64           `json:"id"`
	UserID           string          `json:"user_id"`
	Platform         string          `json:"platform"`
	PlatformUserID   string          `json:"platform_user_id"`
	PlatformUsername string          `json:"platform_username"`
	AccessToken      string          `json:"-"`
	RefreshToken     string          `json:"-"`
	TokenExpiresAt   *time.Time      `json:"token_expires_at,omitempty"`
	IsActive         bool            `json:"is_active"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PlatformCredential is the normalized result of an OAuth code exchange.
// ExpiresIn of zero means the token does not expire (e.g. page tokens).
type PlatformCredential struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int64
	PlatformUserID   string
	PlatformUsername string
	Metadata         json.RawMessage
}

// OAuthState is the decoded anti-forgery payload round-tripped through the
// provider redirect.
type OAuthState struct {
	UserID   string `json:"user_id"`
	Platform string `json:"platform"`
	Nonce    string `json:"nonce"`
}

// AuthorizationPrompt is what a connect request hands back to the caller:
// either a redirect URL, or for telegram the bot-linking instructions.
type AuthorizationPrompt struct {
	AuthURL     string `json:"authUrl,omitempty"`
	Message     string `json:"message,omitempty"`
	BotUsername string `json:"botUsername,omitempty"`
}
