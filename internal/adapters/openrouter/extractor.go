package openrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/revrost/go-openrouter"
	"github.com/revrost/go-openrouter/jsonschema"

	"sentinel/internal/adapters/llm"
	"sentinel/internal/domain"
	"sentinel/internal/ports"
)

// DefaultModel supports JSON schema responses
const DefaultModel = "openai/gpt-4o-mini"

const systemPrompt = "You extract personal energy graphs from schedules. Answer with JSON only."

// completer sends one chat completion and returns the first choice's text
type completer interface {
	complete(ctx context.Context, request openrouter.ChatCompletionRequest) (string, error)
}

type apiClient struct {
	openRouterClient *openrouter.Client
}

func (c apiClient) complete(ctx context.Context, request openrouter.ChatCompletionRequest) (string, error) {
	response, err := c.openRouterClient.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return response.Choices[0].Message.Content.Text, nil
}

// Extractor implements ports.Extractor with OpenRouter structured output
type Extractor struct {
	client completer
	model  string
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor creates an extractor authenticated with apiKey
func NewExtractor(apiKey, model string) *Extractor {
	return newExtractor(apiClient{openRouterClient: openrouter.NewClient(apiKey)}, model)
}

func newExtractor(client completer, model string) *Extractor {
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{client: client, model: model}
}

func (e *Extractor) Name() string { return "openrouter:" + e.model }

func (e *Extractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	var resp llm.Response
	schema, err := jsonschema.GenerateSchemaForType(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	request := openrouter.ChatCompletionRequest{
		Model: e.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: systemPrompt},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: llm.Prompt(text)},
			},
		},
		ResponseFormat: &openrouter.ChatCompletionResponseFormat{
			Type: openrouter.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openrouter.ChatCompletionResponseFormatJSONSchema{
				Name:   "schedule_graph",
				Schema: schema,
				Strict: false, // Some models don't support strict mode
			},
		},
	}

	content, err := e.client.complete(ctx, request)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		// Models without schema support sometimes wrap the object in prose
		return llm.Parse(content)
	}
	return resp.ToExtraction(), nil
}
