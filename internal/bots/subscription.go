package bots

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"botfolio/internal/analytics"
	"botfolio/internal/payment"
	"botfolio/internal/router"
	"botfolio/internal/store"
)

// Subscription callback tokens.
const (
	cbMainMenu       = "main_menu"
	cbGetTrial       = "get_trial"
	cbBuy            = "buy_subscription"
	cbConfirmPayment = "confirm_payment"
	cbMyAccess       = "my_access"
	cbGetConfig      = "get_config"
	cbSupport        = "support"
	cbAboutBot       = "about"
)

// Issued to every active subscriber; the demo has no per-user backend.
const configTemplate = `# Connection configuration
server: vpn.example.com
port: 1194
protocol: udp
cipher: AES-256-CBC
auth: SHA512
key-direction: 1
remote-cert-tls: server

<ca>
-----BEGIN CERTIFICATE-----
FAKE_CERTIFICATE_FOR_DEMO_ONLY
-----END CERTIFICATE-----
</ca>`

// Subscription sells timed access: a one-time trial, a demo purchase
// flow, status checks and config issuance.
type Subscription struct {
	users     store.UserStore
	gateway   payment.Gateway
	events    *analytics.Logger
	log       *zap.Logger
	trialDays int
	paidDays  int
	priceRUB  int
}

func NewSubscription(users store.UserStore, gateway payment.Gateway, events *analytics.Logger, log *zap.Logger, trialDays, paidDays, priceRUB int) *Subscription {
	return &Subscription{
		users:     users,
		gateway:   gateway,
		events:    events,
		log:       log,
		trialDays: trialDays,
		paidDays:  paidDays,
		priceRUB:  priceRUB,
	}
}

func (s *Subscription) Start(ctx context.Context, up router.Update) router.Reply {
	_, ok, err := s.users.Get(ctx, up.UserID)
	if err != nil {
		s.log.Warn("failed to load user", zap.Int64("user_id", up.UserID), zap.Error(err))
		return s.retryReply(cbMainMenu)
	}
	if !ok {
		if _, err := s.users.Create(ctx, up.UserID, up.Username); err != nil {
			s.log.Warn("failed to create user", zap.Int64("user_id", up.UserID), zap.Error(err))
			return s.retryReply(cbMainMenu)
		}
		return router.Reply{
			Text: "👋 Welcome!\n" +
				"I manage subscriptions to a network service.\n\n" +
				"What I can do:\n" +
				fmt.Sprintf("• Grant a %d-day free trial\n", s.trialDays) +
				"• Sell a 1-month subscription\n" +
				"• Show your access status\n" +
				"• Answer your questions\n\n" +
				"Pick an action below:",
			Menu: s.mainMenu(),
		}
	}
	return router.Reply{Text: "Welcome back! What would you like to do?", Menu: s.mainMenu()}
}

func (s *Subscription) HandleText(_ context.Context, _ router.Update) (router.Reply, bool) {
	return router.Reply{}, false
}

func (s *Subscription) HandleCallback(ctx context.Context, up router.Update) (router.Reply, bool) {
	switch up.Callback {
	case cbMainMenu:
		return router.Reply{Text: "Main menu:", Menu: s.mainMenu(), Edit: true}, true
	case cbGetTrial:
		return s.grantTrial(ctx, up), true
	case cbBuy:
		return s.offerSubscription(), true
	case cbConfirmPayment:
		return s.confirmPayment(ctx, up), true
	case cbMyAccess:
		return s.myAccess(ctx, up), true
	case cbGetConfig:
		return s.issueConfig(up), true
	case cbSupport:
		return router.Reply{
			Text: "🆘 Support\n\n" +
				"If you run into a problem:\n\n" +
				"1. Describe it in this chat\n" +
				"2. An admin replies within 24 hours\n" +
				"3. For urgent matters: @NicholasBiz\n\n" +
				"Type your question below:",
			Menu: s.backToMenu(),
			Edit: true,
		}, true
	case cbAboutBot:
		return router.Reply{
			Text: "ℹ️ About this bot\n\n" +
				"A demo of a subscription management bot.\n\n" +
				"Implemented:\n" +
				"• User registration\n" +
				fmt.Sprintf("• Free trial (%d days)\n", s.trialDays) +
				"• Subscription purchase (demo payment)\n" +
				"• Access status checks\n" +
				"• Config issuance\n" +
				"• Support",
			Menu: s.backToMenu(),
			Edit: true,
		}, true
	}
	return router.Reply{}, false
}

func (s *Subscription) grantTrial(ctx context.Context, up router.Update) router.Reply {
	if _, ok, err := s.users.Get(ctx, up.UserID); err != nil {
		s.log.Warn("failed to load user", zap.Int64("user_id", up.UserID), zap.Error(err))
		return s.retryReply(cbGetTrial)
	} else if !ok {
		if _, err := s.users.Create(ctx, up.UserID, up.Username); err != nil {
			s.log.Warn("failed to create user", zap.Int64("user_id", up.UserID), zap.Error(err))
			return s.retryReply(cbGetTrial)
		}
	}

	granted, err := s.users.GrantTrial(ctx, up.UserID, s.trialDays)
	if err != nil {
		s.log.Warn("failed to grant trial", zap.Int64("user_id", up.UserID), zap.Error(err))
		return s.retryReply(cbGetTrial)
	}
	if !granted {
		return router.Reply{
			Text: "❌ You have already used your trial.\n" +
				"Buy a subscription to keep using the service.",
			Menu: s.backToMenu(),
			Edit: true,
		}
	}

	s.events.Log(up.UserID, up.Username, "trial_granted", string(store.ModeSubscription),
		fmt.Sprintf("%d days", s.trialDays))
	return router.Reply{
		Text: fmt.Sprintf("✅ Your %d-day trial is active!\n\n", s.trialDays) +
			"You now have access to every feature of the service.\n" +
			"When the trial ends you can buy a paid subscription.",
		Menu: s.backToMenu(),
		Edit: true,
	}
}

func (s *Subscription) offerSubscription() router.Reply {
	return router.Reply{
		Text: "💳 Buying a subscription\n\n" +
			"One month of subscription gives you:\n" +
			"• Full access to the service\n" +
			"• Priority support\n" +
			"• All future updates\n\n" +
			fmt.Sprintf("Price: %d₽\n\n", s.priceRUB) +
			"You get access immediately after payment.",
		Menu: router.Menu(
			router.Row(router.Btn(fmt.Sprintf("💳 Pay %d₽", s.priceRUB), cbConfirmPayment)),
			router.Row(router.Btn("🔙 Back", cbMainMenu)),
		),
		Edit: true,
	}
}

func (s *Subscription) confirmPayment(ctx context.Context, up router.Update) router.Reply {
	description := "1-month subscription"

	// The stub gateway always succeeds; a real processor would plug in
	// here without changing anything below.
	if err := s.gateway.Charge(ctx, up.UserID, s.priceRUB, description); err != nil {
		s.log.Warn("charge failed", zap.Int64("user_id", up.UserID), zap.Error(err))
		return s.retryReply(cbConfirmPayment)
	}

	if _, err := s.users.GrantPaid(ctx, up.UserID, s.paidDays); err != nil {
		s.log.Warn("failed to grant paid access", zap.Int64("user_id", up.UserID), zap.Error(err))
		return s.retryReply(cbConfirmPayment)
	}
	if _, err := s.users.AddPayment(ctx, up.UserID, s.priceRUB, description); err != nil {
		// History is cosmetic; access was already granted.
		s.log.Warn("failed to record payment", zap.Int64("user_id", up.UserID), zap.Error(err))
	}

	s.events.Log(up.UserID, up.Username, "payment_confirmed", string(store.ModeSubscription),
		fmt.Sprintf("%d₽, %d days", s.priceRUB, s.paidDays))
	return router.Reply{
		Text: "✅ Payment successful!\n\n" +
			fmt.Sprintf("Your subscription is active for %d days.\n", s.paidDays) +
			"You now have full access to the service.\n\n" +
			"Thank you for your purchase! 🎉",
		Menu: s.backToMenu(),
		Edit: true,
	}
}

func (s *Subscription) myAccess(ctx context.Context, up router.Update) router.Reply {
	status, err := s.users.Status(ctx, up.UserID)
	if err != nil {
		s.log.Warn("failed to compute status", zap.Int64("user_id", up.UserID), zap.Error(err))
		return s.retryReply(cbMyAccess)
	}

	var text string
	switch {
	case status.Active && status.Kind == store.KindTrial:
		text = "🎁 Trial is active\n\n" +
			fmt.Sprintf("Days left: %d\n", status.DaysLeft) +
			"Consider buying a subscription before the trial ends."
	case status.Active:
		text = "✅ Subscription is active\n\n" +
			fmt.Sprintf("Days left: %d\n", status.DaysLeft) +
			"You have full access to every feature."
	default:
		text = "❌ No active access\n\n" +
			"You have no active subscription or trial.\n" +
			"Use the menu to get access."
	}

	menu := [][]router.Button{}
	if status.Active {
		menu = append(menu, router.Row(router.Btn("📄 Get configuration", cbGetConfig)))
	}
	menu = append(menu, router.Row(router.Btn("🔙 Back", cbMainMenu)))

	return router.Reply{Text: text, Menu: menu, Edit: true}
}

func (s *Subscription) issueConfig(up router.Update) router.Reply {
	s.events.Log(up.UserID, up.Username, "config_issued", string(store.ModeSubscription), "")
	return router.Reply{
		Text: "📄 Your configuration:\n\n" +
			"```\n" + configTemplate + "\n```\n\n" +
			"Copy this text into a config.ovpn file",
		Menu: router.Menu(router.Row(router.Btn("🔙 Back to status", cbMyAccess))),
	}
}

func (s *Subscription) mainMenu() [][]router.Button {
	return router.Menu(
		router.Row(router.Btn("🎁 Try for free", cbGetTrial)),
		router.Row(router.Btn("💳 Buy a subscription", cbBuy)),
		router.Row(router.Btn("📊 My access", cbMyAccess)),
		router.Row(router.Btn("🆘 Support", cbSupport)),
		router.Row(router.Btn("ℹ️ About the bot", cbAboutBot)),
	)
}

func (s *Subscription) backToMenu() [][]router.Button {
	return router.Menu(router.Row(router.Btn("🔙 Back to menu", cbMainMenu)))
}

func (s *Subscription) retryReply(action string) router.Reply {
	return router.Reply{
		Text: "😕 Could not complete that, try again.",
		Menu: router.Menu(
			router.Row(router.Btn("🔄 Try again", action)),
			router.Row(router.Btn("🔙 Back to menu", cbMainMenu)),
		),
		Edit: true,
	}
}
