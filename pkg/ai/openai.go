// Package ai implements suggestion backends: the OpenAI chat API and an offline
// template engine, plus a resilience wrapper shared by both.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
)

type OpenAIProvider struct {
	Model      string
	APIKey     string
	baseURL    string       // For testing - defaults to OpenAI API
	httpClient *http.Client // For testing - defaults to http.DefaultClient
}

func NewOpenAIProvider(model string, apiKey string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIProvider{
		Model:   model,
		APIKey:  apiKey,
		baseURL: "https://api.openai.com/v1/chat/completions",
	}
}

// NewOpenAIProviderWithClient creates a provider with custom HTTP client and base URL (for testing).
func NewOpenAIProviderWithClient(model, apiKey, baseURL string, client *http.Client) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1/chat/completions"
	}
	return &OpenAIProvider{
		Model:      model,
		APIKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (p *OpenAIProvider) ID() string {
	return "openai:" + p.Model
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *OpenAIProvider) Suggest(ctx context.Context, req suggest.Request) (*suggest.Response, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided (set OPENAI_API_KEY)")
	}
	if req.Review == nil {
		return nil, fmt.Errorf("request has no review")
	}

	messages := []openAIMessage{
		{Role: "system", Content: systemPrompt(req)},
		{Role: "user", Content: userPrompt(req)},
	}

	body, err := json.Marshal(openAIRequest{
		Model:     p.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API returned status: %s", resp.Status)
	}

	var openAIResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return nil, err
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI API returned no choices")
	}

	return &suggest.Response{
		Text:  strings.TrimSpace(openAIResp.Choices[0].Message.Content),
		Model: p.Model,
		Usage: suggest.TokenUsage{
			InputTokens:  openAIResp.Usage.PromptTokens,
			OutputTokens: openAIResp.Usage.CompletionTokens,
		},
	}, nil
}

func systemPrompt(req suggest.Request) string {
	business := req.BusinessName
	if business == "" {
		business = "the business"
	}
	return fmt.Sprintf(
		"You draft owner replies to customer reviews of %s. Write in a %s tone, thank the reviewer by name, address their specific feedback, and keep it under 80 words. Return only the reply text.",
		business, req.Tone)
}

func userPrompt(req suggest.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reviewer: %s\n", req.Review.ReviewerName)
	fmt.Fprintf(&b, "Rating: %d/5\n", req.Review.Rating)
	fmt.Fprintf(&b, "Sentiment: %s\n", req.Review.Sentiment)
	fmt.Fprintf(&b, "Review: %s\n", req.Review.Text)
	if req.Template != "" {
		fmt.Fprintf(&b, "Base the reply on this template: %s\n", req.Template)
	}
	return b.String()
}
