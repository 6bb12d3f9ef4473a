package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Extractor runs the extraction strategies for one document in strict order
// and stops at the first success.
type Extractor struct {
	model      Model
	parsers    []Parser
	retry      RetryConfig
	timeout    time.Duration
	logger     *slog.Logger
	readPDF    func([]byte) (PDFText, error)
	renderPage func([]byte) ([]byte, error)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithParsers replaces the deterministic parsers.
func WithParsers(parsers ...Parser) Option {
	return func(e *Extractor) { e.parsers = parsers }
}

// WithRetryConfig replaces the model retry policy.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(e *Extractor) { e.retry = cfg }
}

// WithTimeout bounds every model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

// WithPDFTools replaces the PDF text reader and page renderer.
func WithPDFTools(read func([]byte) (PDFText, error), render func([]byte) ([]byte, error)) Option {
	return func(e *Extractor) {
		if read != nil {
			e.readPDF = read
		}
		if render != nil {
			e.renderPage = render
		}
	}
}

// NewExtractor creates an extractor backed by model.
func NewExtractor(model Model, logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		model:      model,
		parsers:    DefaultParsers(),
		retry:      DefaultModelRetryConfig,
		timeout:    60 * time.Second,
		logger:     logger,
		readPDF:    ReadPDFText,
		renderPage: RenderFirstPage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ModelName returns the name of the backing model, for diagnostics.
func (e *Extractor) ModelName() string {
	if e.model == nil {
		return ""
	}
	return e.model.Name()
}

type aiStep struct {
	strategy string
	request  func() (Request, error)
}

// Extract turns doc into an ExtractedReceipt. categories is the user's
// canonical category list, used to constrain model output.
//
// Order: deterministic parsers for PDFs with a text layer; then the model on
// the extracted text (PDFs with text) or on an image (images, and PDFs without
// text or whose text attempt failed). Non-empty unparseable model output goes
// through local JSON repair and then exactly one model repair call; when that
// call fails too, extraction fails without trying the remaining strategies.
func (e *Extractor) Extract(ctx context.Context, doc Document, categories []string) (*Result, error) {
	if len(doc.Data) == 0 {
		return nil, newError(ErrInvalidDocument, "", "document is empty", nil)
	}

	res := &Result{Model: e.ModelName()}
	logger := e.logger.With(slog.String("file_name", doc.FileName))

	var text PDFText
	if doc.IsPDF() {
		var err error
		text, err = e.readPDF(doc.Data)
		if err != nil {
			res.Warnings = append(res.Warnings, "pdf text: "+err.Error())
			logger.Warn("failed to read PDF text layer", "error", err)
		}
		if text.HasText {
			if receipt, ok := e.runParsers(text.Lines, res, logger); ok {
				res.Receipt = receipt
				res.Strategy = StrategyDeterministic
				res.Model = ""
				return res, nil
			}
		}
	}

	steps := e.planAISteps(doc, text)
	if len(steps) == 0 {
		return nil, newError(ErrNoStrategy, "", fmt.Sprintf("no extraction strategy for mime type %q", doc.MimeType), nil)
	}
	if e.model == nil {
		return nil, newError(ErrModelUnavailable, steps[0].strategy, "no model configured", nil)
	}

	instruction := BuildExtractionPrompt(categories)
	var lastErr error

	for _, step := range steps {
		req, err := step.request()
		if err != nil {
			lastErr = err
			res.Attempts = append(res.Attempts, Attempt{Strategy: step.strategy, Error: err.Error()})
			continue
		}
		req.Instruction = instruction

		raw, err := e.generate(ctx, req)
		if err != nil {
			lastErr = tagStrategy(err, step.strategy)
			res.Attempts = append(res.Attempts, Attempt{Strategy: step.strategy, Error: err.Error()})
			logger.Warn("extraction strategy failed", "strategy", step.strategy, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		res.RawOutput = raw

		receipt, _, repaired, perr := parseWithRepair(raw)
		if perr == nil {
			res.Receipt = receipt
			res.Strategy = step.strategy
			if repaired {
				res.Strategy = StrategyJSONRepair
				res.Warnings = append(res.Warnings, step.strategy+" output repaired locally")
			}
			res.Attempts = append(res.Attempts, Attempt{Strategy: res.Strategy})
			return res, nil
		}
		res.Attempts = append(res.Attempts, Attempt{Strategy: step.strategy, Error: "malformed JSON: " + perr.Error()})
		logger.Info("model output is malformed, asking model to repair", "strategy", step.strategy)

		receipt, rerr := e.repairWithModel(ctx, raw, res)
		if rerr != nil {
			return nil, newError(ErrAllStrategiesFailed, StrategyJSONRepair, "model output could not be repaired", rerr)
		}
		res.Receipt = receipt
		res.Strategy = StrategyJSONRepair
		res.Warnings = append(res.Warnings, step.strategy+" output repaired by model")
		return res, nil
	}

	return nil, newError(ErrAllStrategiesFailed, "", "all extraction strategies failed", lastErr)
}

func (e *Extractor) runParsers(lines []string, res *Result, logger *slog.Logger) (*ExtractedReceipt, bool) {
	for _, p := range e.parsers {
		if !p.Match(lines) {
			continue
		}
		receipt, err := p.Parse(lines)
		if err != nil {
			res.Attempts = append(res.Attempts, Attempt{Strategy: StrategyDeterministic, Error: err.Error()})
			logger.Warn("deterministic parser failed", "parser", p.Name(), "error", err)
			continue
		}
		if receipt.Extra == nil {
			receipt.Extra = map[string]any{}
		}
		receipt.Extra["parser"] = p.Name()
		res.Attempts = append(res.Attempts, Attempt{Strategy: StrategyDeterministic})
		return receipt, true
	}
	return nil, false
}

func (e *Extractor) planAISteps(doc Document, text PDFText) []aiStep {
	vision := func(mime string, data func() ([]byte, error)) aiStep {
		return aiStep{strategy: StrategyAIVision, request: func() (Request, error) {
			img, err := data()
			if err != nil {
				return Request{}, newError(ErrInvalidDocument, StrategyAIVision, "failed to render document", err)
			}
			return Request{Image: &Image{MimeType: mime, Data: img}}, nil
		}}
	}
	rendered := vision("image/jpeg", func() ([]byte, error) { return e.renderPage(doc.Data) })

	switch {
	case doc.IsImage():
		return []aiStep{vision(doc.MimeType, func() ([]byte, error) { return doc.Data, nil })}
	case doc.IsPDF() && text.HasText:
		textStep := aiStep{strategy: StrategyAIText, request: func() (Request, error) {
			return Request{Text: text.Text}, nil
		}}
		return []aiStep{textStep, rendered}
	case doc.IsPDF():
		return []aiStep{rendered}
	}
	return nil
}

// repairWithModel issues the single model repair call and parses its output,
// locally repaired if needed.
func (e *Extractor) repairWithModel(ctx context.Context, malformed string, res *Result) (*ExtractedReceipt, error) {
	raw, err := e.generate(ctx, Request{
		Instruction: "You repair malformed JSON. Respond with JSON only.",
		Text:        BuildRepairPrompt(malformed),
	})
	if err != nil {
		res.Attempts = append(res.Attempts, Attempt{Strategy: StrategyJSONRepair, Error: err.Error()})
		return nil, tagStrategy(err, StrategyJSONRepair)
	}

	receipt, _, _, perr := parseWithRepair(raw)
	if perr != nil {
		res.Attempts = append(res.Attempts, Attempt{Strategy: StrategyJSONRepair, Error: "malformed JSON: " + perr.Error()})
		return nil, newError(ErrMalformedJSON, StrategyJSONRepair, "repaired output is still malformed", perr)
	}
	res.RawOutput = raw
	res.Attempts = append(res.Attempts, Attempt{Strategy: StrategyJSONRepair})
	return receipt, nil
}

// generate calls the model with retry; every attempt is bounded by the
// configured timeout. Blank output is a hard failure.
func (e *Extractor) generate(ctx context.Context, req Request) (string, error) {
	return WithRetry(ctx, e.retry, func(ctx context.Context) (string, error) {
		callCtx := ctx
		if e.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}
		out, err := e.model.Generate(callCtx, req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", newError(ErrEmptyResponse, "", "model returned empty output", nil)
		}
		return out, nil
	})
}

func tagStrategy(err error, strategy string) error {
	var e *Error
	if errors.As(err, &e) && e.Strategy == "" {
		e.Strategy = strategy
	}
	return err
}
