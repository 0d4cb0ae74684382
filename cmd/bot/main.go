package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"botfolio/internal/analytics"
	"botfolio/internal/bots"
	"botfolio/internal/config"
	"botfolio/internal/content"
	"botfolio/internal/llm"
	"botfolio/internal/payment"
	"botfolio/internal/router"
	"botfolio/internal/session"
	"botfolio/internal/store"
	"botfolio/internal/telegram"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file found, using process environment")
	}
	cfg := config.New()

	users := newUserStore(cfg, logger)
	defer func() {
		_ = users.Close()
	}()

	events := analytics.New(newSink(cfg, logger), logger)

	llmClient, err := llm.NewFromConfig(cfg)
	if err != nil {
		logger.Fatal("failed to create completion client", zap.Error(err))
	}
	if llmClient == nil {
		logger.Info("completion service not configured, serving canned examples only")
	}

	sessions := session.NewManager()
	generator := content.NewGenerator(llmClient, logger)

	r := router.New(users, events, logger)
	r.Register(store.ModeSubscription, bots.NewSubscription(
		users, payment.StubGateway{}, events, logger, cfg.TrialDays, cfg.PaidDays, cfg.PriceRUB))
	r.Register(store.ModeRecommend, bots.NewRecommend(events, logger))
	r.Register(store.ModeContent, bots.NewContentGen(sessions, generator, events, logger))

	bot, err := telegram.New(cfg.BotToken, r, logger)
	if err != nil {
		logger.Fatal("failed to reach telegram", zap.Error(err))
	}

	mux := http.NewServeMux()
	bot.RegisterRoutes(mux)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var keepalive *cron.Cron
	if cfg.PublicHostname != "" {
		// Webhook registration is the one startup step allowed to
		// abort the process.
		if err := bot.StartWebhook(cfg.PublicHostname); err != nil {
			logger.Fatal("failed to register webhook", zap.Error(err))
		}
		keepalive = startKeepalive(cfg.PublicHostname, logger)
	} else {
		logger.Info("no public hostname configured, falling back to polling")
		go bot.StartPolling(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
	if keepalive != nil {
		keepalive.Stop()
	}
	if cfg.PublicHostname != "" {
		bot.DeleteWebhook()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
}

// newUserStore builds the configured backend, degrading from SQLite to
// the JSON file store rather than refusing to start.
func newUserStore(cfg *config.Config, logger *zap.Logger) store.UserStore {
	if cfg.StoreBackend == config.StoreSQLite {
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err == nil {
			logger.Info("using sqlite user store", zap.String("path", cfg.SQLitePath))
			return s
		}
		logger.Warn("sqlite store unavailable, falling back to file store", zap.Error(err))
	}
	s, err := store.NewFileStore(cfg.UsersFilePath)
	if err != nil {
		logger.Fatal("failed to init user store", zap.Error(err))
	}
	logger.Info("using file user store", zap.String("path", cfg.UsersFilePath))
	return s
}

// newSink resolves sheet credentials through the provider chain and
// probes the spreadsheet. Every failure path returns nil, which keeps
// events in the local log.
func newSink(cfg *config.Config, logger *zap.Logger) analytics.Sink {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	creds, provider, err := analytics.ResolveCredentials(ctx,
		analytics.EnvProvider{Value: cfg.SheetsCredentialsJSON},
		analytics.FileProvider{Path: cfg.SheetsCredentialsFile},
	)
	if err != nil {
		logger.Warn("failed to resolve sheet credentials", zap.Error(err))
		return nil
	}
	if creds == nil {
		logger.Info("no sheet credentials configured, events go to local log")
		return nil
	}
	if cfg.SpreadsheetID == "" {
		logger.Warn("sheet credentials found but SPREADSHEET_ID is empty, events go to local log")
		return nil
	}
	logger.Info("sheet credentials resolved", zap.String("provider", provider))

	sink, err := analytics.NewSheetsSink(ctx, creds, cfg.SpreadsheetID)
	if err != nil {
		logger.Warn("failed to init sheets sink, events go to local log", zap.Error(err))
		return nil
	}
	if err := sink.Probe(ctx); err != nil {
		logger.Warn("spreadsheet probe failed, keeping the sink anyway", zap.Error(err))
	} else {
		logger.Info("spreadsheet reachable")
	}
	return sink
}

// startKeepalive pings the public health endpoint every four minutes so
// free-tier hosting does not put the container to sleep.
func startKeepalive(hostname string, logger *zap.Logger) *cron.Cron {
	url := "https://" + hostname + "/health"
	c := cron.New()
	_, err := c.AddFunc("@every 4m", func() {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(url)
		if err != nil {
			logger.Warn("self-ping failed", zap.Error(err))
			return
		}
		_ = resp.Body.Close()
	})
	if err != nil {
		logger.Warn("failed to schedule self-ping", zap.Error(err))
		return c
	}
	c.Start()
	return c
}
