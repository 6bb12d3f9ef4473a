package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/config"
)

// Image is inline binary input for multimodal requests.
type Image struct {
	MimeType string
	Data     []byte
}

// Request is one model call: an instruction plus either text or an image.
type Request struct {
	Instruction string
	Text        string
	Image       *Image
}

// Model is a JSON-producing language model.
type Model interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// NewModel builds the configured provider client.
func NewModel(ctx context.Context, cfg config.AIConfig) (Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIModel(cfg), nil
	case config.ProviderGemini:
		return NewGeminiModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}

func newLimiter(cfg config.AIConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// classifyStatus maps a provider HTTP status onto an extraction error.
func classifyStatus(strategy string, status int, cause error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		e := newError(ErrModelRateLimited, strategy, "model rate limited", cause)
		e.Retryable = true
		return e
	case status >= 500 || status == http.StatusRequestTimeout:
		e := newError(ErrModelUnavailable, strategy, "model unavailable", cause)
		e.Retryable = true
		return e
	default:
		return newError(ErrModelUnavailable, strategy, fmt.Sprintf("model request rejected (status %d)", status), cause)
	}
}

// classifyTransport handles errors that carry no HTTP status.
func classifyTransport(strategy string, err error) *Error {
	if errors.Is(err, context.Canceled) {
		return newError(ErrModelUnavailable, strategy, "model request canceled", err)
	}
	e := newError(ErrModelUnavailable, strategy, "model request failed", err)
	e.Retryable = errors.Is(err, context.DeadlineExceeded)
	return e
}
