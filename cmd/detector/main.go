package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"detector-padroes/config"
	"detector-padroes/internal/ai"
	"detector-padroes/internal/analyzer"
	"detector-padroes/internal/api"
	"detector-padroes/internal/bot"
	"detector-padroes/internal/metrics"
	"detector-padroes/internal/scraper"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Carregar variáveis de ambiente
	envErr := godotenv.Load()

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao carregar configurações: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	m := metrics.New()

	gemini := ai.NewClient(cfg.GeminiAPIKey,
		ai.WithModel(cfg.GeminiModel),
		ai.WithBaseURL(cfg.GeminiBaseURL),
		ai.WithTimeout(cfg.GeminiTimeout),
		ai.WithRateLimit(cfg.GeminiRateLimitRPM),
	)

	detector := analyzer.New(
		scraper.NewHTTPFetcher(cfg.FetchTimeout),
		gemini,
		gemini,
		analyzer.WithLogger(logger),
		analyzer.WithMetrics(m),
		analyzer.WithPriceHistory(nil, cfg.PriceHistoryDays),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr: cfg.ServerAddr,
		Handler: api.NewRouter(api.RouterConfig{
			Analyzer:        detector,
			Summarizer:      gemini,
			Metrics:         m,
			Logger:          logger,
			AnalysisTimeout: cfg.AnalysisTimeout,
			EnableCORS:      cfg.EnableCORS,
		}),
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Servidor HTTP ouvindo", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Bot do Telegram é opcional
	var wg sync.WaitGroup
	if cfg.TelegramEnabled() {
		telegramBot, err := bot.Init(cfg.TelegramBotToken, logger)
		if err != nil {
			logger.Fatal("Erro ao inicializar bot do Telegram", zap.Error(err))
		}

		handler := bot.NewHandler(telegramBot, detector, cfg.TelegramChatID, cfg.AnalysisTimeout, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := handler.Run(ctx, bot.Updates(telegramBot)); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Bot do Telegram parou", zap.Error(err))
			}
		}()
		defer telegramBot.StopReceivingUpdates()
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN vazio, bot do Telegram desativado")
	}

	select {
	case err := <-serverErrors:
		logger.Error("Erro no servidor HTTP", zap.Error(err))
		stop()
	case <-ctx.Done():
		logger.Info("Sinal de encerramento recebido")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Falha no encerramento gracioso, forçando", zap.Error(err))
		server.Close()
	}

	wg.Wait()
	logger.Info("Encerrado")
}

// initLogger cria o logger do zap conforme ambiente e nível
func initLogger(env, level string) *zap.Logger {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
