package receipts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/categorization"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/extraction"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/rules"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/money"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/storage"
)

var tracer = otel.Tracer("receipts-service")

// ReceiptStore is the persistence the processor needs.
type ReceiptStore interface {
	GetReceiptFile(ctx context.Context, receiptID, userID uuid.UUID) (*ReceiptFile, error)
	Persist(ctx context.Context, o Outcome) error
	MarkFailed(ctx context.Context, receiptID, userID uuid.UUID, message string, diag Diagnostics) error
}

// CatalogSource returns a user's category catalog, seeding it when missing.
type CatalogSource interface {
	EnsureCatalog(ctx context.Context, userID uuid.UUID) (*categorization.Catalog, error)
}

// PreferenceSource loads learned item categories and store languages.
type PreferenceSource interface {
	LoadForUser(ctx context.Context, userID uuid.UUID) (categorization.PreferenceMap, error)
	StoreLanguage(ctx context.Context, userID uuid.UUID, store string) (language.Locale, bool, error)
}

// DocumentExtractor turns a document into an extracted receipt.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc extraction.Document, categories []string) (*extraction.Result, error)
	ModelName() string
}

// ProcessorDeps wires a Processor.
type ProcessorDeps struct {
	Receipts    ReceiptStore
	Blobs       storage.Storage
	Categories  CatalogSource
	Preferences PreferenceSource
	Extractor   DocumentExtractor
	Rules       *rules.Table
	Heuristics  *rules.Heuristics
	Feedback    *FeedbackLogger
	Logger      *slog.Logger

	DefaultCurrency string
	FeedbackCap     int
	FetchTimeout    time.Duration
	FailTimeout     time.Duration
	Now             func() time.Time
}

// Processor runs the receipt pipeline for one receipt at a time. It holds no
// per-receipt state and is safe for concurrent use.
type Processor struct {
	receipts    ReceiptStore
	blobs       storage.Storage
	categories  CatalogSource
	preferences PreferenceSource
	extractor   DocumentExtractor
	rules       *rules.Table
	heuristics  *rules.Heuristics
	feedback    *FeedbackLogger
	logger      *slog.Logger

	defaultCurrency string
	feedbackCap     int
	fetchTimeout    time.Duration
	failTimeout     time.Duration
	now             func() time.Time
}

// NewProcessor creates a Processor.
func NewProcessor(deps ProcessorDeps) *Processor {
	p := &Processor{
		receipts:        deps.Receipts,
		blobs:           deps.Blobs,
		categories:      deps.Categories,
		preferences:     deps.Preferences,
		extractor:       deps.Extractor,
		rules:           deps.Rules,
		heuristics:      deps.Heuristics,
		feedback:        deps.Feedback,
		logger:          deps.Logger,
		defaultCurrency: deps.DefaultCurrency,
		feedbackCap:     deps.FeedbackCap,
		fetchTimeout:    deps.FetchTimeout,
		failTimeout:     deps.FailTimeout,
		now:             deps.Now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.defaultCurrency == "" {
		p.defaultCurrency = money.EUR
	}
	if p.feedbackCap <= 0 {
		p.feedbackCap = DefaultFeedbackCap
	}
	if p.fetchTimeout <= 0 {
		p.fetchTimeout = 30 * time.Second
	}
	if p.failTimeout <= 0 {
		p.failTimeout = 10 * time.Second
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.rules == nil {
		p.rules = rules.NewTable(language.ES)
	}
	return p
}

// Process extracts, categorizes and persists one receipt. A missing receipt
// row is a no-op. Every other failure is written as a failed status before
// the error is returned.
func (p *Processor) Process(ctx context.Context, receiptID, userID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "receipts.Process", trace.WithAttributes(
		attribute.String("receipt.id", receiptID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	start := p.now()
	logger := p.logger.With(
		slog.String("receipt_id", receiptID.String()),
		slog.String("user_id", userID.String()),
	)

	file, err := p.receipts.GetReceiptFile(ctx, receiptID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load receipt")
		p.markFailed(ctx, receiptID, userID, err, p.baseDiagnostics(nil), logger)
		observe(outcomeFailed, "", start, p.now())
		return fmt.Errorf("failed to load receipt: %w", err)
	}
	if file == nil {
		logger.Info("receipt not found, skipping")
		observe(outcomeSkipped, "", start, p.now())
		return nil
	}

	diag := p.baseDiagnostics(file)
	outcome, feedback, err := p.run(ctx, file, &diag, logger)
	if err == nil {
		err = p.persist(ctx, outcome)
	}

	// feedback is best effort and independent of the receipt's final status
	p.feedback.Flush(feedback)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "receipt processing failed")
		logger.Error("receipt processing failed",
			"error", err,
			"strategy", diag.Strategy,
			"duration", p.now().Sub(start),
		)
		p.markFailed(ctx, receiptID, userID, err, diag, logger)
		observe(outcomeFailed, diag.Strategy, start, p.now())
		return err
	}

	span.SetAttributes(
		attribute.String("receipt.strategy", diag.Strategy),
		attribute.Int("receipt.items", len(outcome.Items)),
	)
	logger.Info("receipt processed",
		"strategy", diag.Strategy,
		"items", len(outcome.Items),
		"total", outcome.Meta.Total.String(),
		"unresolved_categories", diag.Unresolved,
		"duration", p.now().Sub(start),
	)
	observe(outcomeCompleted, diag.Strategy, start, p.now())
	return nil
}

// Fail marks a receipt failed. The dispatcher calls it after a panic.
func (p *Processor) Fail(ctx context.Context, receiptID, userID uuid.UUID, cause error) {
	logger := p.logger.With(
		slog.String("receipt_id", receiptID.String()),
		slog.String("user_id", userID.String()),
	)
	p.markFailed(ctx, receiptID, userID, cause, p.baseDiagnostics(nil), logger)
	observe(outcomeFailed, "", p.now(), p.now())
}

func (p *Processor) run(ctx context.Context, file *ReceiptFile, diag *Diagnostics, logger *slog.Logger) (*Outcome, []FeedbackEntry, error) {
	data, err := p.fetch(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := p.loadCatalog(ctx, file.UserID)
	if err != nil {
		return nil, nil, err
	}
	prefs := p.loadPreferences(ctx, file.UserID, logger)

	var storeLocale language.Locale
	var storeLocaleKnown bool
	if file.StoreName != nil {
		storeLocale, storeLocaleKnown = p.storeLanguage(ctx, file.UserID, *file.StoreName, logger)
	}

	result, err := p.extract(ctx, extraction.Document{
		FileName: file.FileName,
		MimeType: file.MimeType,
		Data:     data,
	}, catalog.Names())
	if err != nil {
		return nil, nil, err
	}
	diag.Strategy = result.Strategy
	diag.Model = result.Model
	diag.RawOutput = result.RawOutput
	diag.Warnings = append(diag.Warnings, result.Warnings...)
	diag.Attempts = result.Attempts
	diag.Extra = result.Receipt.Extra

	r := result.Receipt
	currency := money.NormalizeCurrency(r.Currency, p.defaultCurrency)
	meta := ReceiptMeta{
		StoreName: NormalizeStoreName(r.StoreName),
		Date:      NormalizeDate(r.ReceiptDate),
		Time:      NormalizeTime(r.ReceiptTime, p.now()),
		Currency:  currency,
	}
	if meta.StoreName == nil && file.StoreName != nil {
		meta.StoreName = NormalizeStoreName(*file.StoreName)
	}
	if strings.TrimSpace(r.ReceiptDate) != "" && meta.Date == nil {
		diag.Warnings = append(diag.Warnings, fmt.Sprintf("unparseable receipt date %q", r.ReceiptDate))
	}

	if !storeLocaleKnown && meta.StoreName != nil {
		storeLocale, storeLocaleKnown = p.storeLanguage(ctx, file.UserID, *meta.StoreName, logger)
	}
	locale := storeLocale
	if !storeLocaleKnown {
		locale = language.DetectLocale(localeSamples(meta.StoreName, r.Items))
	}
	diag.Locale = string(locale)

	// canonical merchant label, e.g. "MERCADONA, S.A. A-46103834" -> "Mercadona"
	storeName := ""
	if meta.StoreName != nil {
		if m := p.rules.Match(locale, *meta.StoreName); m != nil && m.Label != "" {
			label := m.Label
			meta.StoreName = &label
		}
		storeName = *meta.StoreName
	}

	chain := NewCategoryChain(catalog, prefs, p.heuristics)
	collector := NewFeedbackCollector(p.feedbackCap)
	unresolved := 0

	items := make([]LineItem, 0, len(r.Items))
	totals := make([]decimal.Decimal, 0, len(r.Items))
	for _, raw := range r.Items {
		desc := strings.Join(strings.Fields(raw.Description), " ")
		if desc == "" {
			diag.Warnings = append(diag.Warnings, "skipped item without description")
			continue
		}

		amounts := InferAmounts(raw.Quantity, raw.PricePerUnit, raw.TotalPrice, currency)
		if !amounts.MeasuredQuantity.IsZero() {
			diag.Warnings = append(diag.Warnings, fmt.Sprintf("item %q: measured quantity %s stored as 1", desc, amounts.MeasuredQuantity.String()))
		}

		pick, isUnresolved := chain.Resolve(ItemContext{
			Description: desc,
			RawCategory: raw.Category,
			StoreName:   storeName,
			Locale:      locale,
		})
		if isUnresolved {
			unresolved++
			collector.Record(FeedbackEntry{
				UserID:          file.UserID,
				ReceiptID:       file.ID,
				Description:     desc,
				RawCategory:     strings.TrimSpace(raw.Category),
				ClosestCategory: categorization.Closest(raw.Category, catalog.Names()),
				Locale:          string(locale),
				StoreName:       storeName,
				FileName:        file.FileName,
				CreatedAt:       p.now().UTC(),
			})
		}

		item := LineItem{
			Description:  desc,
			Quantity:     amounts.Quantity,
			PricePerUnit: amounts.PricePerUnit,
			TotalPrice:   amounts.TotalPrice,
		}
		if pick != nil {
			item.CategoryID = pick.Category.ID
			item.CategoryTypeID = pick.Category.TypeID
			item.CategoryName = pick.Category.Name
			item.CategorySource = pick.Source
		}
		items = append(items, item)
		totals = append(totals, amounts.TotalPrice)
	}

	if unresolved > 0 {
		unresolvedCategories.Add(float64(unresolved))
		logger.Info("unresolved item categories",
			"count", unresolved,
			"dropped_feedback", collector.Dropped(),
		)
	}
	diag.Unresolved = unresolved

	// never report less than the items add up to
	itemSum := money.Sum(currency, totals...)
	reported := decimal.Zero
	if r.TotalAmount.Valid {
		reported = r.TotalAmount.Value
	}
	meta.Total = money.Max(currency, reported, itemSum)
	if r.TotalAmount.Valid && itemSum.GreaterThan(money.Round(reported, currency)) {
		diag.Warnings = append(diag.Warnings, fmt.Sprintf("reported total %s below item sum %s", reported.String(), itemSum.String()))
	}

	diag.ProcessedAt = p.now().UTC()
	return &Outcome{
		ReceiptID:   file.ID,
		UserID:      file.UserID,
		Meta:        meta,
		Items:       items,
		Diagnostics: *diag,
	}, collector.Entries(), nil
}

func (p *Processor) fetch(ctx context.Context, file *ReceiptFile) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "receipts.FetchFile")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	data, info, err := storage.ReadAll(ctx, p.blobs, file.FileKey)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("receipt file %q is missing", file.FileName)
		}
		return nil, fmt.Errorf("failed to fetch receipt file: %w", err)
	}
	if file.MimeType == "" && info != nil {
		file.MimeType = info.ContentType
	}
	span.SetAttributes(attribute.Int("file.size", len(data)))
	return data, nil
}

func (p *Processor) loadCatalog(ctx context.Context, userID uuid.UUID) (*categorization.Catalog, error) {
	ctx, span := tracer.Start(ctx, "receipts.EnsureCatalog")
	defer span.End()

	catalog, err := p.categories.EnsureCatalog(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return catalog, nil
}

func (p *Processor) loadPreferences(ctx context.Context, userID uuid.UUID, logger *slog.Logger) categorization.PreferenceMap {
	ctx, span := tracer.Start(ctx, "receipts.LoadPreferences")
	defer span.End()

	prefs, err := p.preferences.LoadForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		logger.Warn("failed to load item preferences, continuing without", "error", err)
		return categorization.NewPreferenceMap()
	}
	return prefs
}

func (p *Processor) storeLanguage(ctx context.Context, userID uuid.UUID, store string, logger *slog.Logger) (language.Locale, bool) {
	locale, ok, err := p.preferences.StoreLanguage(ctx, userID, store)
	if err != nil {
		logger.Warn("failed to load store language", "store", store, "error", err)
		return language.Unknown, false
	}
	return locale, ok
}

func (p *Processor) extract(ctx context.Context, doc extraction.Document, categories []string) (*extraction.Result, error) {
	ctx, span := tracer.Start(ctx, "receipts.Extract", trace.WithAttributes(
		attribute.String("file.mime_type", doc.MimeType),
	))
	defer span.End()

	result, err := p.extractor.Extract(ctx, doc, categories)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}
	if result == nil || result.Receipt == nil {
		return nil, errors.New("extraction returned no receipt")
	}
	span.SetAttributes(attribute.String("extraction.strategy", result.Strategy))
	return result, nil
}

func (p *Processor) persist(ctx context.Context, o *Outcome) error {
	ctx, span := tracer.Start(ctx, "receipts.Persist")
	defer span.End()

	if err := p.receipts.Persist(ctx, *o); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to persist receipt: %w", err)
	}
	return nil
}

// markFailed runs detached from ctx so a cancelled or timed out job still
// leaves the receipt in a terminal state.
func (p *Processor) markFailed(ctx context.Context, receiptID, userID uuid.UUID, cause error, diag Diagnostics, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.failTimeout)
	defer cancel()

	diag.ProcessedAt = p.now().UTC()
	if err := p.receipts.MarkFailed(ctx, receiptID, userID, failureMessage(cause), diag); err != nil {
		logger.Error("failed to mark receipt failed", "error", err, "cause", cause)
	}
}

func (p *Processor) baseDiagnostics(file *ReceiptFile) Diagnostics {
	d := Diagnostics{Model: p.extractor.ModelName()}
	if file != nil {
		d.FileName = file.FileName
	}
	return d
}

func failureMessage(err error) string {
	if err == nil {
		return "receipt processing failed"
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "receipt processing failed"
}

func localeSamples(store *string, items []extraction.ExtractedItem) []string {
	samples := make([]string, 0, len(items)+1)
	if store != nil {
		samples = append(samples, *store)
	}
	for _, it := range items {
		samples = append(samples, it.Description)
	}
	return samples
}

func observe(outcome, strategy string, start, end time.Time) {
	receiptsProcessed.WithLabelValues(outcome, strategy).Inc()
	processingDuration.WithLabelValues(outcome).Observe(end.Sub(start).Seconds())
}
