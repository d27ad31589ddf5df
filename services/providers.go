package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/go-huggingface"
	"github.com/sashabaranov/go-openai"

	"timeless/config"
)

// ErrSuggesterDisabled is returned when no model API key is configured.
var ErrSuggesterDisabled = errors.New("query suggestion is not configured")

func intPtr(i int) *int {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}

func boolPtr(b bool) *bool {
	return &b
}

// HuggingFace generates text through the Hugging Face inference API.
type HuggingFace struct {
	client *huggingface.InferenceClient
	model  string
}

func NewHuggingFace(apiKey, model string) *HuggingFace {
	return &HuggingFace{
		client: huggingface.NewInferenceClient(apiKey),
		model:  model,
	}
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	req := &huggingface.TextGenerationRequest{
		Inputs: prompt,
		Model:  h.model,
		Parameters: huggingface.TextGenerationParameters{
			MaxNewTokens:   intPtr(800),
			Temperature:    float64Ptr(0.1), // low temperature keeps the SQL precise
			TopK:           intPtr(10),
			TopP:           float64Ptr(0.9),
			ReturnFullText: boolPtr(false),
		},
	}

	res, err := h.client.TextGeneration(ctx, req)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", errors.New("no response from LLM")
	}
	return res[0].GeneratedText, nil
}

// DefaultOpenAIModel is used when MODEL_ID is empty.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates text through the chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You write PostgreSQL queries. Reply with SQL only."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   800,
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}

// NewSuggester builds the suggester for the configured provider.
func NewSuggester(cfg config.LLM) (Suggester, error) {
	if !cfg.Enabled() {
		return nil, ErrSuggesterDisabled
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "huggingface":
		return NewQuerySuggester(NewHuggingFace(cfg.APIKey, cfg.Model)), nil
	case "openai":
		return NewQuerySuggester(NewOpenAI(cfg.APIKey, cfg.Model)), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
