package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const webhookPath = "/webhook"

// RegisterRoutes mounts the health check and the inbound webhook on the
// given mux.
func (b *Bot) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "✅ Bot portfolio is running")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "✅ Bot portfolio is running")
	})
	mux.HandleFunc(webhookPath, b.handleWebhook)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("failed to decode webhook update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	// Answer Telegram right away; the handler runs on its own.
	go b.HandleUpdate(context.Background(), update)
	w.WriteHeader(http.StatusOK)
}

// StartWebhook registers the public webhook URL with Telegram. Failure
// here is the one startup error that aborts the process.
func (b *Bot) StartWebhook(publicHostname string) error {
	url := "https://" + publicHostname + webhookPath
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.s.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		b.log.Warn("failed to read webhook info", zap.Error(err))
	} else {
		b.log.Info("webhook registered",
			zap.String("url", info.URL),
			zap.Int("pending_updates", info.PendingUpdateCount),
		)
	}
	return nil
}

// StartPolling runs the long-polling loop until ctx is cancelled. Used
// when no public hostname is configured.
func (b *Bot) StartPolling(ctx context.Context) {
	if _, err := b.s.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.log.Warn("failed to delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot started in polling mode")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// DeleteWebhook removes the registered webhook on shutdown.
func (b *Bot) DeleteWebhook() {
	if _, err := b.s.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.log.Warn("failed to delete webhook", zap.Error(err))
	}
}
