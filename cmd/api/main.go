package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"outfit-studio-server/internal/generation"
	"outfit-studio-server/internal/http/handlers"
	httpapi "outfit-studio-server/internal/http/httpapi"
	"outfit-studio-server/internal/infra"
	"outfit-studio-server/internal/providers/genai"
	"outfit-studio-server/internal/session"
	"outfit-studio-server/internal/storage"
	"outfit-studio-server/internal/upload"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	previews, err := storage.NewFileStore(cfg.PreviewStoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize preview storage")
	}

	client, err := genai.NewClient(genai.Options{
		APIKey:         cfg.GeminiAPIKey,
		BaseURL:        cfg.GeminiBaseURL,
		ImageModel:     cfg.GeminiImageModel,
		TextModel:      cfg.GeminiTextModel,
		Logger:         logger,
		Timeout:        cfg.UpstreamTimeout,
		CallsPerMinute: cfg.UpstreamCallsPerMin,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generation client")
	}

	orchestrator := generation.NewOrchestrator(client, logger)
	intake := upload.NewIntake(previews, logger)
	sessions := session.NewStore(cfg.SessionTTL, previews, logger)

	app := handlers.NewApp(cfg, logger, sessions, intake, orchestrator, previews)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
