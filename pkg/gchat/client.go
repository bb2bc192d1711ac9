package gchat

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/chat/v1"
	"google.golang.org/api/option"
)

// Client wraps the Google Chat API service for proactive (asynchronous)
// space messages. Synchronous webhook replies do not need it.
type Client struct {
	service *chat.Service
}

// NewClientFromCredentialsFile creates a Chat client from a Service Account JSON file path.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data)
}

// NewClientFromCredentialsJSON creates a Chat client from raw Service Account JSON bytes.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, chat.ChatBotScope)
	if err != nil {
		return nil, fmt.Errorf("unsupported credentials format (service account required): %w", err)
	}

	svc, err := chat.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat service: %w", err)
	}
	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Chat client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := chat.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat service: %w", err)
	}
	return &Client{service: svc}, nil
}

// CreateMessage posts a text message into a space (e.g. "spaces/AAAA1234").
func (c *Client) CreateMessage(ctx context.Context, spaceName, text string) error {
	msg := &chat.Message{Text: text}

	_, err := c.service.Spaces.Messages.Create(spaceName, msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create chat message in %s: %w", spaceName, err)
	}
	return nil
}
