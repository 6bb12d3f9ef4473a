package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/categorization"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/extraction"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/receipts"
	receiptshandler "github.com/FACorreiaa/smart-finance-receipts/internal/domain/receipts/handler"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/rules"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/config"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/cron"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/db"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	ReceiptsRepo    *receipts.Repository
	CategoryRepo    *categorization.CategoryRepository
	PreferencesRepo *categorization.PreferenceRepository

	// Services
	FileStorage    storage.Storage
	Model          extraction.Model
	Extractor      *extraction.Extractor
	FeedbackLogger *receipts.FeedbackLogger
	Processor      *receipts.Processor
	Dispatcher     *receipts.Dispatcher
	Scheduler      *cron.Scheduler

	// Handlers
	ReceiptsHandler *receiptshandler.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	// Initialize repositories
	if err := deps.initRepositories(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	// Initialize services
	if err := deps.initServices(ctx); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	// Initialize handlers
	if err := deps.initHandlers(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        int32(d.Config.Database.MaxConns),
		MinConns:        int32(d.Config.Database.MinConns),
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	// Run migrations
	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.ReceiptsRepo = receipts.NewRepository(d.DB.Pool)
	d.CategoryRepo = categorization.NewCategoryRepository(d.DB.Pool)
	d.PreferencesRepo = categorization.NewPreferenceRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices(ctx context.Context) error {
	pipeline := d.Config.Pipeline

	defaultLocale, ok := language.ParseLocale(pipeline.DefaultLocale)
	if !ok {
		return fmt.Errorf("unsupported default locale %q", pipeline.DefaultLocale)
	}

	fileStorage, err := storage.New(ctx, d.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage

	model, err := extraction.NewModel(ctx, d.Config.AI)
	if err != nil {
		return fmt.Errorf("failed to init model client: %w", err)
	}
	d.Model = model

	d.Extractor = extraction.NewExtractor(model, d.Logger,
		extraction.WithTimeout(d.Config.AI.Timeout),
		extraction.WithRetryConfig(extraction.RetryConfig{
			MaxRetries:    d.Config.AI.MaxRetries,
			InitialDelay:  time.Second,
			MaxDelay:      20 * time.Second,
			BackoffFactor: 2,
		}),
	)

	d.FeedbackLogger = receipts.NewFeedbackLogger(d.ReceiptsRepo, d.Logger, 10*time.Second)

	d.Processor = receipts.NewProcessor(receipts.ProcessorDeps{
		Receipts:        d.ReceiptsRepo,
		Blobs:           d.FileStorage,
		Categories:      d.CategoryRepo,
		Preferences:     d.PreferencesRepo,
		Extractor:       d.Extractor,
		Rules:           rules.NewTable(defaultLocale),
		Heuristics:      rules.NewHeuristics(defaultLocale),
		Feedback:        d.FeedbackLogger,
		Logger:          d.Logger,
		DefaultCurrency: pipeline.DefaultCurrency,
		FeedbackCap:     pipeline.FeedbackCap,
	})

	d.Dispatcher = receipts.NewDispatcher(d.Processor, receipts.NewMemoryTracker(), d.Logger, pipeline.JobTimeout)

	d.Scheduler = cron.NewScheduler(d.ReceiptsRepo, d.Dispatcher, cron.SweepConfig{
		Spec:       pipeline.SweepSpec,
		StaleAfter: pipeline.StaleAfter,
		BatchSize:  pipeline.SweepBatch,
	}, d.Logger)

	d.Logger.Info("services initialized",
		slog.String("ai_provider", d.Config.AI.Provider),
		slog.String("model", model.Name()),
		slog.String("storage", d.Config.Storage.Type),
	)
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.ReceiptsHandler = receiptshandler.NewHandler(d.Dispatcher, d.ReceiptsRepo, d.DB.Pool, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.FeedbackLogger != nil {
		d.FeedbackLogger.Wait()
	}
	if closer, ok := d.Model.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			d.Logger.Warn("failed to close model client", "error", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
