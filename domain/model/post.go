package model

import "time"

// Post statuses. A post is created pending and moves exactly once to one of
// the terminal states once every platform dispatch has settled.
const (
	PostStatusPending = "pending"
	PostStatusPosted  = "posted"
	PostStatusPartial = "partial"
	PostStatusFailed  = "failed"
)

// Post is one immutable record of a publish attempt across platforms.
// A retry creates a new Post; rows are never mutated after reaching a
// terminal status.
type Post struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	Content         string            `json:"content"`
	ImageURL        *string           `json:"image_url,omitempty"`
	Platforms       []string          `json:"platforms"`
	Status          string            `json:"status"`
	PlatformPostIDs map[string]string `json:"platform_post_ids,omitempty"`
	ErrorDetails    map[string]string `json:"error_details,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// PublishResult is the per-platform outcome of one fan-out dispatch.
type PublishResult struct {
	Platform       string `json:"platform"`
	Success        bool   `json:"success"`
	ProviderPostID string `json:"data,omitempty"`
	Error          string `json:"error,omitempty"`
}

// DeriveStatus aggregates per-platform outcomes into the terminal post
// status: posted when everything succeeded, failed when nothing did,
// partial otherwise.
func DeriveStatus(results []PublishResult) string {
	success := 0
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	switch {
	case len(results) > 0 && success == len(results):
		return PostStatusPosted
	case success > 0:
		return PostStatusPartial
	default:
		return PostStatusFailed
	}
}
