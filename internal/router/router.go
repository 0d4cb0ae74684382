package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"botfolio/internal/analytics"
	"botfolio/internal/store"
)

// Update is one inbound interaction, already stripped of transport
// details. Exactly one of Text or Callback is set.
type Update struct {
	UserID   int64
	Username string
	Text     string
	Callback string
}

// Button is a single menu entry: either a callback action or an
// external link.
type Button struct {
	Label  string
	Action string
	URL    string
}

// Reply is what a handler asks the gateway to deliver: text plus an
// optional inline menu. Edit requests replacing the originating message
// instead of sending a new one.
type Reply struct {
	Text string
	Menu [][]Button
	Edit bool
}

func Btn(label, action string) Button { return Button{Label: label, Action: action} }

func URLBtn(label, url string) Button { return Button{Label: label, URL: url} }

func Row(buttons ...Button) []Button { return buttons }

func Menu(rows ...[]Button) [][]Button { return rows }

// Handler is one bot mode. Start shows the mode's entry menu;
// HandleCallback and HandleText report false when the input does not
// belong to them, which the router answers with the entry menu again.
type Handler interface {
	Start(ctx context.Context, up Update) Reply
	HandleCallback(ctx context.Context, up Update) (Reply, bool)
	HandleText(ctx context.Context, up Update) (Reply, bool)
}

const modeCallbackPrefix = "mode_"

// Router resolves the user's current mode and dispatches the update to
// the matching handler. Mode changes are persisted before the new
// mode's entry menu is shown.
type Router struct {
	users    store.UserStore
	handlers map[store.Mode]Handler
	events   *analytics.Logger
	log      *zap.Logger
}

func New(users store.UserStore, events *analytics.Logger, log *zap.Logger) *Router {
	return &Router{
		users:    users,
		handlers: make(map[store.Mode]Handler),
		events:   events,
		log:      log,
	}
}

func (r *Router) Register(mode store.Mode, h Handler) {
	r.handlers[mode] = h
}

// CurrentMode reads the user's persisted mode, defaulting to
// Subscription for unknown users or store failures.
func (r *Router) CurrentMode(ctx context.Context, userID int64) store.Mode {
	rec, ok, err := r.users.Get(ctx, userID)
	if err != nil {
		r.log.Warn("failed to read user mode", zap.Int64("user_id", userID), zap.Error(err))
		return store.ModeSubscription
	}
	if !ok || rec.Mode == "" {
		return store.ModeSubscription
	}
	return rec.Mode
}

// Route maps one update to a reply. It never fails: storage errors
// degrade to a retry-oriented menu.
func (r *Router) Route(ctx context.Context, up Update) Reply {
	switch {
	case up.Text == "/start":
		return r.handleStart(ctx, up)
	case up.Text == "/mode":
		return Reply{Text: "🔄 Switching bots\n\nPick the bot you want to use:", Menu: modeMenu()}
	case up.Text == "/help":
		return r.handleHelp(ctx, up)
	case strings.HasPrefix(up.Callback, modeCallbackPrefix):
		return r.switchMode(ctx, up, strings.TrimPrefix(up.Callback, modeCallbackPrefix))
	}

	mode := r.CurrentMode(ctx, up.UserID)
	if mode == store.ModeAbout {
		return aboutReply()
	}

	h, ok := r.handlers[mode]
	if !ok {
		r.log.Warn("no handler registered for mode", zap.String("mode", string(mode)))
		return Reply{Text: "Something went wrong. Pick a bot to continue:", Menu: modeMenu()}
	}

	if up.Callback != "" {
		if rep, handled := h.HandleCallback(ctx, up); handled {
			return rep
		}
		// Stale or foreign callback: neutral re-prompt with the
		// mode's entry menu.
		return h.Start(ctx, up)
	}
	if rep, handled := h.HandleText(ctx, up); handled {
		return rep
	}
	return h.Start(ctx, up)
}

func (r *Router) handleStart(ctx context.Context, up Update) Reply {
	r.events.Log(up.UserID, up.Username, "start", "dispatcher", "user opened the portfolio menu")

	if _, ok, err := r.users.Get(ctx, up.UserID); err == nil && !ok {
		if _, err := r.users.Create(ctx, up.UserID, up.Username); err != nil {
			r.log.Warn("failed to create user record", zap.Int64("user_id", up.UserID), zap.Error(err))
		}
	} else if err != nil {
		r.log.Warn("failed to load user record", zap.Int64("user_id", up.UserID), zap.Error(err))
	}

	return Reply{
		Text: "🚀 Telegram bot portfolio\n\n" +
			"Pick a demo bot to try:\n\n" +
			"• 🤖 Subscription bot — a full subscription sales cycle\n" +
			"• 🛒 Gear advisor — product picks with affiliate links\n" +
			"• 📝 Content factory — AI-generated posts\n\n" +
			"You can switch between the bots at any time!",
		Menu: modeMenu(),
	}
}

func (r *Router) handleHelp(ctx context.Context, up Update) Reply {
	mode := r.CurrentMode(ctx, up.UserID)
	return Reply{
		Text: fmt.Sprintf("ℹ️ Help\n\n"+
			"Current bot: %s\n"+
			"Your ID: %d\n\n"+
			"Commands:\n"+
			"/start — main menu\n"+
			"/mode — switch bots\n"+
			"/help — this message\n\n"+
			"Pick a bot from the menu, use it, and switch with /mode whenever you like.",
			modeName(mode), up.UserID),
	}
}

func (r *Router) switchMode(ctx context.Context, up Update, raw string) Reply {
	mode, ok := store.ParseMode(raw)
	if !ok {
		return Reply{Text: "Unknown bot. Pick one from the menu:", Menu: modeMenu(), Edit: true}
	}

	if err := r.users.SetMode(ctx, up.UserID, up.Username, mode); err != nil {
		r.log.Warn("failed to persist mode switch",
			zap.Int64("user_id", up.UserID), zap.String("mode", string(mode)), zap.Error(err))
		return Reply{
			Text: "😕 Could not switch right now, try again.",
			Menu: Menu(Row(Btn("🔄 Try again", modeCallbackPrefix+raw))),
			Edit: true,
		}
	}
	r.events.Log(up.UserID, up.Username, "mode_switch", string(mode), "switched via mode menu")

	if mode == store.ModeAbout {
		return aboutReply()
	}
	h, ok := r.handlers[mode]
	if !ok {
		return Reply{Text: "Something went wrong. Pick a bot to continue:", Menu: modeMenu(), Edit: true}
	}
	rep := h.Start(ctx, up)
	rep.Edit = true
	return rep
}

func modeMenu() [][]Button {
	return Menu(
		Row(Btn("🤖 Subscription bot", modeCallbackPrefix+string(store.ModeSubscription))),
		Row(Btn("🛒 Gear advisor", modeCallbackPrefix+string(store.ModeRecommend))),
		Row(Btn("📝 Content factory", modeCallbackPrefix+string(store.ModeContent))),
		Row(Btn("ℹ️ About the portfolio", modeCallbackPrefix+string(store.ModeAbout))),
	)
}

func modeName(mode store.Mode) string {
	switch mode {
	case store.ModeRecommend:
		return "Gear advisor"
	case store.ModeContent:
		return "Content factory"
	case store.ModeAbout:
		return "About"
	default:
		return "Subscription bot"
	}
}

func aboutReply() Reply {
	return Reply{
		Text: "🎯 Telegram bot portfolio\n\n" +
			"A demo project showing different kinds of Telegram bots:\n\n" +
			"• Subscription bot — the full sales cycle (trial, payment, access)\n" +
			"• Gear advisor — a recommendation flow with affiliate links\n" +
			"• Content factory — AI-assisted content generation\n\n" +
			"All bots are fully working and ready to be wired into real projects.",
		Menu: modeMenu(),
		Edit: true,
	}
}
