package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultAPIURL = "https://api.line.me"

// Bot is the LINE Messaging API client.
type Bot struct {
	channelToken string
	apiURL       string
	httpClient   *http.Client
}

// NewBot creates a new LINE Messaging API client with the given channel access token.
func NewBot(channelToken string) *Bot {
	return &Bot{
		channelToken: channelToken,
		apiURL:       defaultAPIURL,
		httpClient:   &http.Client{},
	}
}

// SetAPIURL overrides the default Messaging API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// ReplyMessage answers a webhook event using its reply token.
// Reply tokens are single-use and expire shortly after delivery.
func (b *Bot) ReplyMessage(ctx context.Context, replyToken string, messages ...TextMessage) error {
	payload := replyRequest{ReplyToken: replyToken, Messages: messages}
	return b.post(ctx, "/v2/bot/message/reply", payload)
}

// PushMessage sends messages to a user, group, or room without a reply token.
func (b *Bot) PushMessage(ctx context.Context, to string, messages ...TextMessage) error {
	payload := pushRequest{To: to, Messages: messages}
	return b.post(ctx, "/v2/bot/message/push", payload)
}

func (b *Bot) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("line: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("line: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.channelToken)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var apiResp APIResponse
		if json.Unmarshal(raw, &apiResp) == nil && apiResp.Message != "" {
			return fmt.Errorf("line: API error %d: %s", resp.StatusCode, apiResp.Message)
		}
		return fmt.Errorf("line: API error %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}
