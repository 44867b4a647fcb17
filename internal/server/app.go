// Package server initializes and runs the main application server.
// It selects the storage backend, builds the provider table from the
// configured credentials, wires the services, and starts the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/catalog"
	"github.com/avelkov/draftforge/internal/server/config"
	"github.com/avelkov/draftforge/internal/server/httpapi"
	"github.com/avelkov/draftforge/internal/server/providers"
	"github.com/avelkov/draftforge/internal/server/repositories/repomanager"
	"github.com/avelkov/draftforge/internal/server/services"
	"golang.org/x/time/rate"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault()

	reg, err := newRegistry(c)
	if err != nil {
		return nil, fmt.Errorf("model catalog init error: %w", err)
	}

	repos, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	table, err := buildProviderTable(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("provider init error: %w", err)
	}
	logger.Info(ctx, "providers configured", "providers", table.Names())

	limiters := make(map[string]*rate.Limiter, len(table))
	for name := range table {
		limiters[name] = rate.NewLimiter(rate.Limit(float64(c.RequestsPerMinute)/60.0), c.RateBurst)
	}

	gen := services.NewGenerationService(reg, table, repos.Usage(), limiters, logger)
	cmp := services.NewComparisonService(gen, reg, c.CompareTaskTimeout, logger)
	ds := services.NewDraftService(repos.Drafts(), logger)
	an := services.NewAnalyticsService(repos.Usage(), logger)

	srv := httpapi.NewServer(c.EndpointAddrHTTP, reg, gen, cmp, ds, an, logger)

	return &App{config: c, logger: logger, repos: repos, server: srv}, nil
}

func newRegistry(c *config.Config) (*catalog.Registry, error) {
	if c.ModelCatalogPath != "" {
		return catalog.NewFromFile(c.ModelCatalogPath)
	}
	return catalog.New()
}

func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
}

// buildProviderTable registers one provider per configured credential.
// Providers without a key are simply absent; their models stay listed in
// the catalog but generation against them fails as unavailable.
func buildProviderTable(ctx context.Context, c *config.Config) (providers.Table, error) {
	table := providers.Table{}

	if c.OpenAIAPIKey != "" {
		p, err := providers.NewOpenAIProvider(ctx, c.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		table[p.Name()] = p
	}
	if c.AnthropicAPIKey != "" {
		p, err := providers.NewAnthropicProvider(ctx, c.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		table[p.Name()] = p
	}
	if c.GeminiAPIKey != "" {
		p, err := providers.NewGeminiProvider(ctx, c.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		table[p.Name()] = p
	}
	if c.OpenRouterAPIKey != "" {
		p, err := providers.NewOpenRouterProvider(c.OpenRouterAPIKey, c.OpenRouterBaseURL)
		if err != nil {
			return nil, err
		}
		table[p.Name()] = p
	}

	return table, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "err", err.Error())
	}
}
