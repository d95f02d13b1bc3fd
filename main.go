package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixbrock/ideaspark/internal/analysis"
	"github.com/felixbrock/ideaspark/internal/app"
	"github.com/felixbrock/ideaspark/internal/components"
	"github.com/felixbrock/ideaspark/internal/persistence"
	"github.com/felixbrock/ideaspark/internal/rotator"
	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"
)

func ideaRepo(ctx context.Context, cfg app.StoreConfig) (app.IdeaRepo, io.Closer, error) {
	switch cfg.Type {
	case app.StorePostgres:
		repo, err := persistence.NewPostgresRepo(ctx, cfg.DatabaseUrl)
		return repo, repo, err
	case app.StoreLibSQL:
		repo, err := persistence.NewLibSQLRepo(ctx, cfg.LibSQLUrl, cfg.LibSQLAuthToken)
		return repo, repo, err
	case app.StoreRedis:
		repo, err := persistence.NewRedisRepo(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		return repo, repo, err
	case app.StorePostgREST:
		return persistence.NewRestRepo(cfg.PostgRESTUrl, cfg.PostgRESTApiKey), nil, nil
	default:
		return persistence.NewMemoryRepo(), nil, nil
	}
}

func generator(cfg app.AIConfig) (analysis.Generator, error) {
	switch cfg.Provider {
	case app.ProviderOpenAI:
		return persistence.NewOAIRepo(cfg.OAIApiKey, cfg.OAIBaseUrl, cfg.OAIModel), nil
	case app.ProviderOllama:
		return persistence.NewOllamaRepo(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return persistence.NewAnthropicRepo(cfg.AnthropicApiKey, cfg.AnthropicModel), nil
	}
}

func publishers(cfg app.EventsConfig) ([]app.EventPublisher, []io.Closer, error) {
	var pubs []app.EventPublisher
	var closers []io.Closer

	if cfg.NatsUrl != "" {
		natsRepo, err := persistence.NewNATSRepo(cfg.NatsUrl)
		if err != nil {
			return nil, nil, err
		}
		pubs = append(pubs, natsRepo)
		closers = append(closers, natsRepo)
	}

	if cfg.PostHogApiKey != "" {
		pubs = append(pubs, persistence.NewPHRepo(cfg.PostHogApiKey, cfg.PostHogUrl))
	}

	return pubs, closers, nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}
}

func run() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	config, err := app.LoadConfig()
	if err != nil {
		return err
	}

	app.InitLogger(os.Stdout, config.LogLevel, config.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := app.InitTelemetry(ctx, config.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	repo, repoCloser, err := ideaRepo(ctx, config.Store)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", config.Store.Type, err)
	}
	defer closeAll(repoCloser)

	gen, err := generator(config.AI)
	if err != nil {
		return fmt.Errorf("creating %s client: %w", config.AI.Provider, err)
	}

	pubs, pubClosers, err := publishers(config.Events)
	if err != nil {
		return fmt.Errorf("connecting event publishers: %w", err)
	}
	defer closeAll(pubClosers...)

	componentBuilder := app.ComponentBuilder{
		Page:             components.Page,
		Input:            components.Input,
		Placeholder:      components.Placeholder,
		Result:           components.Result,
		FollowUpAppended: components.FollowUpAppended,
		Dashboard:        components.Dashboard,
		IdeaList:         components.IdeaList,
		Error:            components.Error,
	}

	a := app.App{
		Service:          app.NewIdeaService(repo, analysis.NewClient(gen, config.AI.RateLimit), pubs...),
		Placeholders:     rotator.New(app.PlaceholderExamples, config.PlaceholderInterval),
		ComponentBuilder: componentBuilder,
		Config:           *config,
	}

	slog.Info("starting ideaspark",
		"store", config.Store.Type,
		"ai_provider", config.AI.Provider,
		"publishers", len(pubs))

	return a.Start(ctx)
}

func main() {
	if err := run(); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}
}
