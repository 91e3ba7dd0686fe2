package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"social-hub/domain/model"
	"social-hub/infrastructure/configuration"
)

const instagramScopes = "instagram_basic,instagram_content_publish"

// InstagramAdapter publishes through the container-then-publish Graph API
// flow. Instagram has a hard requirement: every post needs an image.
type InstagramAdapter struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authBaseURL  string
	graphBaseURL string
	httpClient   *http.Client
}

func NewInstagramAdapter(cfg configuration.OAuthClient) *InstagramAdapter {
	return &InstagramAdapter{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		authBaseURL:  "https://api.instagram.com",
		graphBaseURL: "https://graph.instagram.com/v18.0",
		httpClient:   http.DefaultClient,
	}
}

func (a *InstagramAdapter) Platform() string { return model.PlatformInstagram }

func (a *InstagramAdapter) BuildAuthorizationURL(userID, state string) (*model.AuthorizationPrompt, error) {
	u, err := url.Parse(a.authBaseURL + "/oauth/authorize")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client_id", a.clientID)
	q.Set("redirect_uri", a.redirectURI)
	q.Set("scope", instagramScopes)
	q.Set("response_type", "code")
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return &model.AuthorizationPrompt{AuthURL: u.String()}, nil
}

func (a *InstagramAdapter) ExchangeCode(ctx context.Context, code string) (*model.PlatformCredential, error) {
	form := url.Values{
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {a.redirectURI},
		"code":          {code},
	}
	var result struct {
		AccessToken      string      `json:"access_token"`
		UserID           json.Number `json:"user_id"`
		ErrorMessage     string      `json:"error_message"`
		ErrorDescription string      `json:"error_description"`
	}
	if _, err := doForm(ctx, a.httpClient, a.authBaseURL+"/oauth/access_token", form, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		msg := result.ErrorMessage
		if msg == "" {
			msg = result.ErrorDescription
		}
		return nil, fmt.Errorf("%w: %s", model.ErrProviderRejected, msg)
	}
	return &model.PlatformCredential{
		AccessToken:    result.AccessToken,
		PlatformUserID: result.UserID.String(),
	}, nil
}

type instagramResult struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Publish runs the two-phase flow: create a media container, then publish
// it. A container that fails to publish is simply orphaned on the provider
// side; it carries no cost here. The image requirement is checked before
// any network call.
func (a *InstagramAdapter) Publish(ctx context.Context, conn *model.SocialConnection, content, imageURL string) (string, error) {
	if imageURL == "" {
		return "", model.UnsupportedContent(model.PlatformInstagram, "Instagram posts require an image")
	}

	containerURL := fmt.Sprintf("%s/%s/media", a.graphBaseURL, url.PathEscape(conn.PlatformUserID))
	var container instagramResult
	if _, err := doJSON(ctx, a.httpClient, http.MethodPost, containerURL, nil, map[string]interface{}{
		"image_url":    imageURL,
		"caption":      content,
		"access_token": conn.AccessToken,
	}, &container); err != nil {
		return "", err
	}
	if container.Error != nil {
		return "", model.RejectedBy(model.PlatformInstagram, container.Error.Message)
	}

	publishURL := fmt.Sprintf("%s/%s/media_publish", a.graphBaseURL, url.PathEscape(conn.PlatformUserID))
	var published instagramResult
	if _, err := doJSON(ctx, a.httpClient, http.MethodPost, publishURL, nil, map[string]interface{}{
		"creation_id":  container.ID,
		"access_token": conn.AccessToken,
	}, &published); err != nil {
		return "", err
	}
	if published.Error != nil {
		return "", model.RejectedBy(model.PlatformInstagram, published.Error.Message)
	}
	return published.ID, nil
}
