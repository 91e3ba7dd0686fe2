package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"social-hub/domain/model"
	"social-hub/infrastructure/configuration"
	"social-hub/infrastructure/logger"
)

const facebookScopes = "pages_manage_posts,pages_read_engagement,pages_show_list"

// FacebookPage is one entry of the user's manageable pages list.
type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// FirstPagePolicy selects which managed page becomes the posting identity.
// Auto-selecting the first page is a business decision, not something the
// Graph API forces; swap this to let the user choose.
func FirstPagePolicy(pages []FacebookPage) *FacebookPage {
	if len(pages) == 0 {
		return nil
	}
	return &pages[0]
}

// FacebookAdapter publishes to a managed page's feed via the Graph API.
type FacebookAdapter struct {
	clientID      string
	clientSecret  string
	redirectURI   string
	dialogBaseURL string
	graphBaseURL  string
	httpClient    *http.Client
	selectPage    func([]FacebookPage) *FacebookPage
}

func NewFacebookAdapter(cfg configuration.OAuthClient) *FacebookAdapter {
	return &FacebookAdapter{
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		redirectURI:   cfg.RedirectURI,
		dialogBaseURL: "https://www.facebook.com/v18.0",
		graphBaseURL:  "https://graph.facebook.com/v18.0",
		httpClient:    http.DefaultClient,
		selectPage:    FirstPagePolicy,
	}
}

func (a *FacebookAdapter) Platform() string { return model.PlatformFacebook }

func (a *FacebookAdapter) BuildAuthorizationURL(userID, state string) (*model.AuthorizationPrompt, error) {
	u, err := url.Parse(a.dialogBaseURL + "/dialog/oauth")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client_id", a.clientID)
	q.Set("redirect_uri", a.redirectURI)
	q.Set("scope", facebookScopes)
	q.Set("state", state)
	q.Set("response_type", "code")
	u.RawQuery = q.Encode()
	return &model.AuthorizationPrompt{AuthURL: u.String()}, nil
}

type facebookTokenResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresIn   int64          `json:"expires_in"`
	Error       *facebookError `json:"error"`
}

type facebookError struct {
	Message string `json:"message"`
}

// ExchangeCode runs the chained facebook exchange: code -> short-lived user
// token -> long-lived user token -> managed pages, then applies the page
// policy. The stored credential is the selected page's token, which is what
// feed publishing needs; page tokens do not expire.
func (a *FacebookAdapter) ExchangeCode(ctx context.Context, code string) (*model.PlatformCredential, error) {
	shortTok, err := a.fetchToken(ctx, url.Values{
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
		"redirect_uri":  {a.redirectURI},
		"code":          {code},
	})
	if err != nil {
		return nil, err
	}
	longTok, err := a.fetchToken(ctx, url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {a.clientID},
		"client_secret":     {a.clientSecret},
		"fb_exchange_token": {shortTok.AccessToken},
	})
	if err != nil {
		return nil, err
	}

	var pages struct {
		Data  []FacebookPage `json:"data"`
		Error *facebookError `json:"error"`
	}
	pagesURL := fmt.Sprintf("%s/me/accounts?access_token=%s", a.graphBaseURL, url.QueryEscape(longTok.AccessToken))
	if _, err := doJSON(ctx, a.httpClient, http.MethodGet, pagesURL, nil, nil, &pages); err != nil {
		return nil, err
	}
	if pages.Error != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrProviderRejected, pages.Error.Message)
	}
	page := a.selectPage(pages.Data)
	if page == nil {
		return nil, fmt.Errorf("%w: no manageable facebook pages available", model.ErrProviderRejected)
	}

	metadata, err := json.Marshal(map[string]interface{}{"pages": pages.Data})
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("page_id", page.ID).Info("facebook page selected for publishing")
	return &model.PlatformCredential{
		AccessToken:      page.AccessToken,
		PlatformUserID:   page.ID,
		PlatformUsername: page.Name,
		Metadata:         metadata,
	}, nil
}

func (a *FacebookAdapter) fetchToken(ctx context.Context, params url.Values) (*facebookTokenResponse, error) {
	tokenURL := fmt.Sprintf("%s/oauth/access_token?%s", a.graphBaseURL, params.Encode())
	var tok facebookTokenResponse
	if _, err := doJSON(ctx, a.httpClient, http.MethodGet, tokenURL, nil, nil, &tok); err != nil {
		return nil, err
	}
	if tok.Error != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrProviderRejected, tok.Error.Message)
	}
	return &tok, nil
}

// Publish posts to the connected page's feed. An image reference rides
// along as a link attachment.
func (a *FacebookAdapter) Publish(ctx context.Context, conn *model.SocialConnection, content, imageURL string) (string, error) {
	payload := map[string]interface{}{
		"message":      content,
		"access_token": conn.AccessToken,
	}
	if imageURL != "" {
		payload["link"] = imageURL
	}
	feedURL := fmt.Sprintf("%s/%s/feed", a.graphBaseURL, url.PathEscape(conn.PlatformUserID))
	var result struct {
		ID    string         `json:"id"`
		Error *facebookError `json:"error"`
	}
	if _, err := doJSON(ctx, a.httpClient, http.MethodPost, feedURL, nil, payload, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", model.RejectedBy(model.PlatformFacebook, result.Error.Message)
	}
	return result.ID, nil
}
