package pipeline

import (
	"context"
	"fmt"
	"strings"

	"dinner-planner/pkg/llmprovider"
)

// Execute runs a single stage against the given context and query: it checks
// required keys, renders the prompt, invokes the generator, and returns the
// generated text. The caller decides where the text goes (context entry or
// final answer); the context itself is not mutated here.
func (s StageSpec) Execute(ctx context.Context, gen Generator, c Context, query string) (string, error) {
	for _, key := range s.RequiredKeys {
		if _, ok := c[key]; !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingContextKey, key)
		}
	}

	prompt := s.BuildPrompt(c, query)

	resp, err := gen.GenerateContent(ctx, &llmprovider.Request{
		Messages: []llmprovider.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyGeneration
	}

	return text, nil
}
