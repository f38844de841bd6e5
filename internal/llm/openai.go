package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func newOpenAIClient(baseURL, apiKey string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
		if !strings.HasSuffix(cfg.BaseURL, "/v1") {
			cfg.BaseURL += "/v1"
		}
	}
	cfg.HTTPClient = newHTTPClient(timeout)
	return openai.NewClientWithConfig(cfg)
}

// OpenAIEmbedder embeds text through the OpenAI SDK. baseURL may point at
// any server speaking the same API; "/v1" is appended when missing.
type OpenAIEmbedder struct {
	client      *openai.Client
	model       string
	queryPrefix string
}

// NewOpenAIEmbedder creates an embedder for model. An empty baseURL uses api.openai.com.
func NewOpenAIEmbedder(baseURL, apiKey, model, queryPrefix string, timeout time.Duration) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:      newOpenAIClient(baseURL, apiKey, timeout),
		model:       model,
		queryPrefix: queryPrefix,
	}
}

// Embed returns the document-mode embedding of text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("cannot embed empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned from API")
	}

	v := make([]float32, len(resp.Data[0].Embedding))
	copy(v, resp.Data[0].Embedding)
	return v, nil
}

// EmbedQuery returns the query-mode embedding of text.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.Embed(ctx, e.queryPrefix+text)
}

// OpenAIGenerator generates extraction output through the OpenAI SDK.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator for model. An empty baseURL uses api.openai.com.
func NewOpenAIGenerator(baseURL, apiKey, model string, timeout time.Duration) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: newOpenAIClient(baseURL, apiKey, timeout),
		model:  model,
	}
}

// Generate sends prompt as a single user message and returns the reply text.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
