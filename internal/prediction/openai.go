package prediction

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName       = "openai"
	openAISchemaName = "stroke_risk_assessment"
)

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string       // Optional (tests, proxies)
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIGenerator calls the chat completions API with a strict json_schema
// response format.
type OpenAIGenerator struct {
	client openai.Client
}

func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIGenerator{client: openai.NewClient(opts...)}, nil
}

func (g *OpenAIGenerator) Name() string { return OpenAIName }

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}

	if req.Schema != nil {
		schema, err := req.Schema.Map()
		if err != nil {
			return "", fmt.Errorf("encode output schema: %w", err)
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   openAISchemaName,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
