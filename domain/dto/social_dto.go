package dto

import "social-hub/domain/model"

// SocialAuthRequest drives both halves of the OAuth flow through one
// endpoint: action "connect" asks for an authorization URL, action
// "callback" completes the exchange with the code and state echoed back
// by the provider.
type SocialAuthRequest struct {
	Platform string `json:"platform"`
	Action   string `json:"action"`
	Code     string `json:"code,omitempty"`
	State    string `json:"state,omitempty"`
}

type DisconnectRequest struct {
	Platform string `json:"platform"`
}

// CreatePostRequest is the publish endpoint payload. ImageUrl references a
// pre-uploaded asset; its bytes are never fetched here.
type CreatePostRequest struct {
	Content   string   `json:"content"`
	Platforms []string `json:"platforms"`
	ImageURL  string   `json:"imageUrl,omitempty"`
}

// CreatePostResponse itemizes every dispatched platform so the caller can
// tell exactly which succeeded without a follow-up query.
type CreatePostResponse struct {
	Success bool                  `json:"success"`
	Results []model.PublishResult `json:"results"`
	PostID  string                `json:"postId"`
	Status  string                `json:"status"`
}
