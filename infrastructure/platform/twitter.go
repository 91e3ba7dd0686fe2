package platform

import (
	"context"
	"net/http"
	"time"

	"social-hub/domain/model"
	"social-hub/infrastructure/configuration"

	"golang.org/x/oauth2"
)

// twitterCodeChallenge mirrors the plain PKCE exchange the consent flow
// uses: the same static verifier goes out in the authorize URL and comes
// back with the token request.
const twitterCodeChallenge = "challenge"

// TwitterAdapter posts tweets through the v2 API. The token exchange runs
// on x/oauth2 with the client secret in a basic auth header, which is what
// twitter's confidential-client flow expects.
type TwitterAdapter struct {
	oauthConfig *oauth2.Config
	apiBaseURL  string
	httpClient  *http.Client
}

func NewTwitterAdapter(cfg configuration.OAuthClient) *TwitterAdapter {
	return &TwitterAdapter{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"tweet.read", "tweet.write", "users.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://twitter.com/i/oauth2/authorize",
				TokenURL:  "https://api.twitter.com/2/oauth2/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiBaseURL: "https://api.twitter.com/2",
		httpClient: http.DefaultClient,
	}
}

func (a *TwitterAdapter) Platform() string { return model.PlatformTwitter }

func (a *TwitterAdapter) BuildAuthorizationURL(userID, state string) (*model.AuthorizationPrompt, error) {
	authURL := a.oauthConfig.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", twitterCodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "plain"),
	)
	return &model.AuthorizationPrompt{AuthURL: authURL}, nil
}

// ExchangeCode trades the code for a bearer token. Twitter's token
// response carries no account identity, so the platform user fields stay
// empty; publishing only needs the token.
func (a *TwitterAdapter) ExchangeCode(ctx context.Context, code string) (*model.PlatformCredential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := a.oauthConfig.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", twitterCodeChallenge),
	)
	if err != nil {
		return nil, err
	}
	var expiresIn int64
	if !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry) / time.Second)
	}
	return &model.PlatformCredential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// Publish creates a tweet. The v2 tweet endpoint is text-only on this
// wire; an image reference is ignored rather than rejected.
func (a *TwitterAdapter) Publish(ctx context.Context, conn *model.SocialConnection, content, imageURL string) (string, error) {
	var result struct {
		Data *struct {
			ID string `json:"id"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Detail string `json:"detail"`
	}
	headers := map[string]string{"Authorization": "Bearer " + conn.AccessToken}
	status, err := doJSON(ctx, a.httpClient, http.MethodPost, a.apiBaseURL+"/tweets", headers, map[string]interface{}{"text": content}, &result)
	if err != nil {
		return "", err
	}
	if len(result.Errors) > 0 {
		return "", model.RejectedBy(model.PlatformTwitter, result.Errors[0].Message)
	}
	if result.Data == nil {
		msg := result.Detail
		if msg == "" {
			msg = http.StatusText(status)
		}
		return "", model.RejectedBy(model.PlatformTwitter, msg)
	}
	return result.Data.ID, nil
}
