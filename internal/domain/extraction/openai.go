package extraction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/config"
)

// OpenAIModel talks to the chat completions API or any compatible gateway.
type OpenAIModel struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAIModel creates a client from config. BaseURL overrides the API host.
func NewOpenAIModel(cfg config.AIConfig) *OpenAIModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIModel{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		limiter: newLimiter(cfg),
	}
}

func (m *OpenAIModel) Name() string {
	return m.model
}

// Generate sends one chat completion in JSON mode.
func (m *OpenAIModel) Generate(ctx context.Context, req Request) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", classifyTransport("", err)
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Image != nil {
		dataURI := fmt.Sprintf("data:%s;base64,%s", req.Image.MimeType, base64.StdEncoding.EncodeToString(req.Image.Data))
		user.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: "Extract the receipt in this image.",
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURI,
					Detail: openai.ImageURLDetailHigh,
				},
			},
		}
	} else {
		user.Content = req.Text
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.Instruction,
			},
			user,
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyStatus("", apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", classifyStatus("", reqErr.HTTPStatusCode, err)
		}
		return "", classifyTransport("", err)
	}

	if len(resp.Choices) == 0 {
		return "", newError(ErrEmptyResponse, "", "model returned no choices", nil)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", newError(ErrEmptyResponse, "", "model returned empty content", nil)
	}
	return content, nil
}
