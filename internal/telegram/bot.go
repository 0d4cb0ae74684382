package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"botfolio/internal/router"
)

// Bot bridges Telegram updates and the mode router.
type Bot struct {
	api    *tgbotapi.BotAPI
	s      sender
	router *router.Router
	log    *zap.Logger
}

func New(botToken string, r *router.Router, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	log.Info("bot authorized", zap.String("bot_username", api.Self.UserName))
	return &Bot{
		api:    api,
		s:      botAPISender{api: api},
		router: r,
		log:    log,
	}, nil
}

// HandleUpdate routes one update and delivers the reply. It runs to
// completion, including any outbound calls the handler makes.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil && update.Message.From != nil {
		msg := update.Message
		up := router.Update{
			UserID:   msg.From.ID,
			Username: msg.From.UserName,
			Text:     msg.Text,
		}
		rep := b.router.Route(ctx, up)
		// Text input always gets a fresh message.
		b.send(msg.Chat.ID, rep)
		return
	}

	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		up := router.Update{
			UserID:   cb.From.ID,
			Username: cb.From.UserName,
			Callback: cb.Data,
		}
		rep := b.router.Route(ctx, up)

		if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn("failed to ack callback", zap.Error(err))
		}

		chatID := cb.From.ID
		if cb.Message != nil {
			chatID = cb.Message.Chat.ID
		}
		if rep.Edit && cb.Message != nil {
			b.edit(chatID, cb.Message.MessageID, rep)
		} else {
			b.send(chatID, rep)
		}
	}
}

func (b *Bot) send(chatID int64, rep router.Reply) {
	msg := tgbotapi.NewMessage(chatID, rep.Text)
	if kb := renderMenu(rep.Menu); kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := b.s.Send(msg); err != nil {
		b.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, rep router.Reply) {
	var c tgbotapi.Chattable
	if kb := renderMenu(rep.Menu); kb != nil {
		c = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, rep.Text, *kb)
	} else {
		c = tgbotapi.NewEditMessageText(chatID, messageID, rep.Text)
	}
	if _, err := b.s.Send(c); err != nil {
		b.log.Warn("failed to edit message, sending instead",
			zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, rep)
	}
}

func renderMenu(menu [][]router.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(menu) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, row := range menu {
		var out []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.URL != "" {
				out = append(out, tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL))
			} else {
				out = append(out, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Action))
			}
		}
		rows = append(rows, out)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
