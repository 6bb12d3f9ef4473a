package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/config"
)

// GeminiModel talks to the Gemini generative API.
type GeminiModel struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewGeminiModel creates a Gemini client. An OpenAI default model name is
// replaced by a Gemini one.
func NewGeminiModel(ctx context.Context, cfg config.AIConfig) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	name := cfg.Model
	if name == "" || strings.HasPrefix(name, "gpt-") {
		name = "gemini-1.5-flash"
	}
	return &GeminiModel{client: client, model: name, limiter: newLimiter(cfg)}, nil
}

func (m *GeminiModel) Name() string {
	return m.model
}

// Close releases the underlying client.
func (m *GeminiModel) Close() error {
	return m.client.Close()
}

// Generate runs one JSON-mode generation.
func (m *GeminiModel) Generate(ctx context.Context, req Request) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", classifyTransport("", err)
	}

	model := m.client.GenerativeModel(m.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.Instruction)}}

	var parts []genai.Part
	if req.Image != nil {
		parts = append(parts,
			genai.Text("Extract the receipt in this image."),
			genai.Blob{MIMEType: req.Image.MimeType, Data: req.Image.Data},
		)
	} else {
		parts = append(parts, genai.Text(req.Text))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus("", apiErr.Code, err)
		}
		return "", classifyTransport("", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", newError(ErrEmptyResponse, "", "model returned no candidates", nil)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", newError(ErrEmptyResponse, "", fmt.Sprintf("model returned empty content (finish reason %v)", resp.Candidates[0].FinishReason), nil)
	}
	return content, nil
}
