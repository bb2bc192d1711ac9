package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"dinner-planner/pkg/deepseek"
	"dinner-planner/pkg/gemini"
)

// GeminiAdapter adapts pkg/gemini to the llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements the Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiReq := &gemini.Request{
		Messages:    convertToGeminiContents(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemInstruction != nil {
		geminiReq.SystemInstruction = &gemini.Content{
			Parts: []gemini.Part{{Text: req.SystemInstruction.Content}},
		}
	}

	resp, err := a.client.GenerateContent(ctx, geminiReq)
	if err != nil {
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			err = fmt.Errorf("%w: %v", ErrProviderRateLimited, apiErr)
		} else if isTimeout(err) {
			err = fmt.Errorf("%w: %v", ErrProviderTimeout, err)
		}
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}

	return &Response{
		Content:      convertFromGeminiContent(resp.Content),
		ProviderName: "gemini",
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns the provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns the model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

// DeepSeekAdapter adapts pkg/deepseek to the llmprovider.Provider interface
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

// GenerateContent implements the Provider interface
func (a *DeepSeekAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	dsReq := &deepseek.Request{
		Messages:    make([]deepseek.Message, 0, len(req.Messages)+1),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	// DeepSeek takes the system instruction as the first message
	if req.SystemInstruction != nil {
		dsReq.Messages = append(dsReq.Messages, deepseek.Message{
			Role:    "system",
			Content: req.SystemInstruction.Content,
		})
	}
	for _, msg := range req.Messages {
		dsReq.Messages = append(dsReq.Messages, deepseek.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := a.client.GenerateContent(ctx, dsReq)
	if err != nil {
		var apiErr *deepseek.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			err = fmt.Errorf("%w: %v", ErrProviderRateLimited, apiErr)
		} else if isTimeout(err) {
			err = fmt.Errorf("%w: %v", ErrProviderTimeout, err)
		}
		return nil, &ProviderError{Provider: "deepseek", Err: err}
	}

	return convertFromDeepSeekResponse(resp), nil
}

// Name returns the provider name
func (a *DeepSeekAdapter) Name() string {
	return "deepseek"
}

// Model returns the model name
func (a *DeepSeekAdapter) Model() string {
	return a.client.Model()
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Conversion helpers for Gemini
func convertToGeminiContents(msgs []Message) []gemini.Content {
	contents := make([]gemini.Content, len(msgs))
	for i, msg := range msgs {
		role := msg.Role
		if role == "assistant" {
			role = "model"
		}
		contents[i] = gemini.Content{
			Role:  role,
			Parts: []gemini.Part{{Text: msg.Content}},
		}
	}
	return contents
}

func convertFromGeminiContent(content gemini.Content) Message {
	text := ""
	if len(content.Parts) > 0 {
		text = content.Parts[0].Text
	}
	return Message{Role: "assistant", Content: text}
}

// Conversion helper for DeepSeek
func convertFromDeepSeekResponse(resp *deepseek.Response) *Response {
	out := &Response{
		Content:      Message{Role: "assistant"},
		ProviderName: "deepseek",
		ModelName:    resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		out.Content.Content = resp.Choices[0].Message.Content
	}
	return out
}
