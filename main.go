package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/blog-admin-console/api"
	"github.com/rpupo63/blog-admin-console/config"
	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rpupo63/blog-admin-console/database"
	"github.com/rpupo63/blog-admin-console/models"
	"github.com/rpupo63/blog-admin-console/services"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("Closing server")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := config.New()

	var resolver config.SecretResolver
	if config.GetString(c, "SERVICE_KEY_SSM_PARAM", "") != "" {
		ssmResolver, err := config.NewSSMResolver(ctx)
		if err != nil {
			return err
		}
		resolver = ssmResolver
	}

	settings, err := config.Load(ctx, c, resolver)
	if err != nil {
		return err
	}

	log.Info().Str("host", settings.DB.Host).Bool("replica", settings.DB.ReplicaHost != "").Msg("Connecting to database...")
	db, err := database.Open(settings.DB.DSN(), settings.DB.ReplicaDSN())
	if err != nil {
		return err
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		return models.GenerateModels(db, config.GetString(c, "GENERATE_MODELS_OUT", "./generated"))
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		_, err := models.ColumnMismatchReport(db)
		return err
	}

	llm, err := services.NewLanguageModel(ctx, settings.LLM)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server, err := api.NewServer(settings, api.Dependencies{
		Services: console.Services{
			Auth:      services.NewAuthClient(settings.AuthServiceURL, settings.ServiceKey, settings.JWTSecret, nil),
			Posts:     currentDB.BlogPostRepo(),
			Uploader:  services.NewImageStorage(settings.StorageBaseURL, settings.Storage),
			Suggester: services.NewKeywordSuggester(llm),
			Metrics:   console.NewMetrics(registry),
		},
		Gatherer: registry,
		Database: currentDB,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, 30*time.Second)
	})
	return g.Wait()
}
