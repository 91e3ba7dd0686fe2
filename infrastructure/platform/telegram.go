package platform

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"social-hub/domain/model"
	"social-hub/infrastructure/configuration"
)

// TelegramAdapter publishes through the Bot API. Telegram has no OAuth
// redirect: the user links the bot to a channel out of band, and the
// connection's platform user id is the target chat.
type TelegramAdapter struct {
	botToken    string
	botUsername string
	apiBaseURL  string
	httpClient  *http.Client
}

func NewTelegramAdapter(cfg configuration.TelegramBot) *TelegramAdapter {
	return &TelegramAdapter{
		botToken:    cfg.BotToken,
		botUsername: cfg.BotUsername,
		apiBaseURL:  "https://api.telegram.org",
		httpClient:  http.DefaultClient,
	}
}

func (a *TelegramAdapter) Platform() string { return model.PlatformTelegram }

// BuildAuthorizationURL returns bot-linking instructions instead of a
// redirect URL.
func (a *TelegramAdapter) BuildAuthorizationURL(userID, state string) (*model.AuthorizationPrompt, error) {
	return &model.AuthorizationPrompt{
		Message:     "Telegram integration requires bot setup",
		BotUsername: a.botUsername,
	}, nil
}

func (a *TelegramAdapter) ExchangeCode(ctx context.Context, code string) (*model.PlatformCredential, error) {
	return nil, model.ValidationError("telegram connections are linked through the bot, not an oauth code")
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Publish sends a photo with caption when an image is attached, a plain
// message otherwise.
func (a *TelegramAdapter) Publish(ctx context.Context, conn *model.SocialConnection, content, imageURL string) (string, error) {
	var endpoint string
	var payload map[string]interface{}
	if imageURL != "" {
		endpoint = "sendPhoto"
		payload = map[string]interface{}{
			"chat_id": conn.PlatformUserID,
			"photo":   imageURL,
			"caption": content,
		}
	} else {
		endpoint = "sendMessage"
		payload = map[string]interface{}{
			"chat_id": conn.PlatformUserID,
			"text":    content,
		}
	}
	sendURL := fmt.Sprintf("%s/bot%s/%s", a.apiBaseURL, a.botToken, endpoint)
	var result telegramResponse
	if _, err := doJSON(ctx, a.httpClient, http.MethodPost, sendURL, nil, payload, &result); err != nil {
		return "", err
	}
	if !result.OK {
		return "", model.RejectedBy(model.PlatformTelegram, result.Description)
	}
	return strconv.FormatInt(result.Result.MessageID, 10), nil
}
