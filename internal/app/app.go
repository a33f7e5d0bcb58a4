// Package app wires configuration, clients, storage, and services into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dataforte10/saham/internal/clients/eodhd"
	"github.com/dataforte10/saham/internal/clients/gemini"
	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/interfaces"
	"github.com/dataforte10/saham/internal/models"
	"github.com/dataforte10/saham/internal/services/aggregator"
	"github.com/dataforte10/saham/internal/services/analysis"
	"github.com/dataforte10/saham/internal/services/prompt"
	"github.com/dataforte10/saham/internal/services/session"
	"github.com/dataforte10/saham/internal/storage/badger"
)

// App holds all initialized services, clients, and storage. Missing API keys
// are fatal here, before any query is accepted.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Store        *badger.Store
	SessionStore interfaces.SessionStore
	MarketClient *eodhd.Client
	GeminiClient *gemini.Client
	Aggregator   interfaces.AggregatorService
	Analysis     interfaces.AnalysisService
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, SAHAM_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("SAHAM_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "saham.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/saham.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage and log paths to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	// Initialize logger
	logger := common.NewLoggerFromConfig(config.Logging)

	// Both API keys are required: no data source means no pipeline, and the
	// analysis stages cannot run without a completion backend.
	eodhdKey, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		return nil, &models.ConfigurationError{Key: "eodhd_api_key"}
	}

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		return nil, &models.ConfigurationError{Key: "gemini_api_key"}
	}

	// Initialize storage
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	sessionStore := badger.NewSessionStore(store, logger)

	// Initialize API clients
	marketClient := eodhd.NewClient(eodhdKey,
		eodhd.WithLogger(logger),
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	)

	geminiClient, err := gemini.NewClient(ctx, geminiKey,
		gemini.WithLogger(logger),
		gemini.WithModel(config.Clients.Gemini.Model),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	// Initialize services
	aggregatorService := aggregator.NewService(marketClient, marketClient, config.Analysis, logger)
	composer := prompt.NewComposer(config.Analysis.Language, config.Analysis.ChatWordLimit)
	cache := session.NewCache(sessionStore, logger)
	analysisService := analysis.NewService(aggregatorService, geminiClient, composer, cache, config.Analysis, logger)

	a := &App{
		Config:       config,
		Logger:       logger,
		Store:        store,
		SessionStore: sessionStore,
		MarketClient: marketClient,
		GeminiClient: geminiClient,
		Aggregator:   aggregatorService,
		Analysis:     analysisService,
		StartupTime:  startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.GeminiClient != nil {
		a.GeminiClient.Close()
		a.GeminiClient = nil
	}
	if a.Store != nil {
		a.Store.Close()
		a.Store = nil
	}
}
