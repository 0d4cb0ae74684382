package bots

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"botfolio/internal/analytics"
	"botfolio/internal/content"
	"botfolio/internal/router"
	"botfolio/internal/session"
	"botfolio/internal/store"
)

// Content-generation callback tokens.
const (
	cbGeneratePost   = "generate_post"
	cbPlatformPrefix = "platform_"
	cbTemplates      = "templates"
	cbAboutContent   = "about_content"
	cbCancel         = "cancel"
)

// ContentGen walks a user through topic → platform → generated post,
// one linear dialogue at a time.
type ContentGen struct {
	sessions *session.Manager
	gen      *content.Generator
	events   *analytics.Logger
	log      *zap.Logger
}

func NewContentGen(sessions *session.Manager, gen *content.Generator, events *analytics.Logger, log *zap.Logger) *ContentGen {
	return &ContentGen{sessions: sessions, gen: gen, events: events, log: log}
}

func (c *ContentGen) Start(_ context.Context, up router.Update) router.Reply {
	c.sessions.Clear(up.UserID)
	return router.Reply{
		Text: "📝 Content factory\n\n" +
			"I help create content for social networks and blogs.\n\n" +
			"What I can do:\n" +
			"• Generate posts for different platforms\n" +
			"• Suggest templates and ideas\n" +
			"• Adapt the style to your audience\n\n" +
			"Pick an action:",
		Menu: contentMenu(),
	}
}

func (c *ContentGen) HandleText(_ context.Context, up router.Update) (router.Reply, bool) {
	sess := c.sessions.Get(up.UserID)
	if sess.Step != session.StepAwaitingTopic {
		return router.Reply{}, false
	}

	c.sessions.Advance(up.UserID, session.FieldTopic, up.Text, session.StepAwaitingPlatform)
	return router.Reply{
		Text: fmt.Sprintf("✅ Topic: %s\n\nNow pick the platform the post is for:", up.Text),
		Menu: platformMenu(),
	}, true
}

func (c *ContentGen) HandleCallback(ctx context.Context, up router.Update) (router.Reply, bool) {
	switch {
	case up.Callback == cbGeneratePost:
		c.sessions.Start(up.UserID)
		return router.Reply{
			Text: "📝 Post generation\n\n" +
				"Send me the topic of the post (for example: \"Product launch\", " +
				"\"Monthly recap\", \"Promo campaign\"):",
			Edit: true,
		}, true
	case strings.HasPrefix(up.Callback, cbPlatformPrefix):
		return c.generate(ctx, up), true
	case up.Callback == cbTemplates:
		return templatesReply(), true
	case up.Callback == cbAboutContent:
		return aboutContentReply(), true
	case up.Callback == cbCancel, up.Callback == cbMainMenu:
		c.sessions.Clear(up.UserID)
		return router.Reply{Text: "Main menu:", Menu: contentMenu(), Edit: true}, true
	}
	return router.Reply{}, false
}

func (c *ContentGen) generate(ctx context.Context, up router.Update) router.Reply {
	platform := strings.TrimPrefix(up.Callback, cbPlatformPrefix)

	sess := c.sessions.Get(up.UserID)
	topic, hasTopic := sess.Collected[session.FieldTopic]
	if sess.Step != session.StepAwaitingPlatform || !hasTopic || !content.KnownPlatform(platform) {
		// Late or malformed input: re-prompt instead of failing.
		return router.Reply{
			Text: "Let's start over. Tap the button to generate a new post:",
			Menu: router.Menu(router.Row(router.Btn("📝 Generate a post", cbGeneratePost))),
			Edit: true,
		}
	}

	c.sessions.Advance(up.UserID, session.FieldPlatform, platform, session.StepAwaitingPlatform)

	prompt := content.BuildPrompt(platform, topic)
	text, fromFallback := c.gen.Generate(ctx, prompt)
	c.sessions.Clear(up.UserID)

	details := fmt.Sprintf("platform=%s topic=%q fallback=%t", platform, topic, fromFallback)
	c.events.Log(up.UserID, up.Username, "content_generated", string(store.ModeContent), details)

	return router.Reply{
		Text: "✅ Done!\n\n" +
			fmt.Sprintf("Platform: %s\n", content.PlatformName(platform)) +
			fmt.Sprintf("Topic: %s\n\n", topic) +
			fmt.Sprintf("Your post:\n\n%s\n\n---\nWhat next?", text),
		Menu: router.Menu(
			router.Row(router.Btn("🔄 New post", cbGeneratePost)),
			router.Row(router.Btn("📋 Main menu", cbMainMenu)),
		),
		Edit: true,
	}
}

func contentMenu() [][]router.Button {
	return router.Menu(
		router.Row(router.Btn("📝 Generate a post", cbGeneratePost)),
		router.Row(router.Btn("📋 Post templates", cbTemplates)),
		router.Row(router.Btn("ℹ️ About the bot", cbAboutContent)),
	)
}

func platformMenu() [][]router.Button {
	return router.Menu(
		router.Row(
			router.Btn("📱 Telegram", cbPlatformPrefix+"telegram"),
			router.Btn("📸 Instagram", cbPlatformPrefix+"instagram"),
		),
		router.Row(
			router.Btn("🌐 VK", cbPlatformPrefix+"vk"),
			router.Btn("🐦 Twitter", cbPlatformPrefix+"twitter"),
		),
		router.Row(router.Btn("📝 Blog", cbPlatformPrefix+"blog")),
		router.Row(router.Btn("🔙 Back", cbCancel)),
	)
}

func templatesReply() router.Reply {
	return router.Reply{
		Text: "📋 Post templates\n\n" +
			"1. Product announcement:\n" +
			"   - The problem the product solves\n" +
			"   - Key benefits\n" +
			"   - Call to action (pre-order/demo)\n\n" +
			"2. Customer case study:\n" +
			"   - The \"before\" situation\n" +
			"   - The solution (your product)\n" +
			"   - The \"after\" with numbers\n\n" +
			"3. Expert take:\n" +
			"   - A hot topic in your niche\n" +
			"   - Analysis/forecast\n" +
			"   - Advice for the audience\n\n" +
			"4. Promo campaign:\n" +
			"   - Limited offer\n" +
			"   - How to participate\n" +
			"   - Deadline\n\n" +
			"Use these as the skeleton for your posts!",
		Menu: router.Menu(
			router.Row(router.Btn("📝 Generate a post", cbGeneratePost)),
			router.Row(router.Btn("🔙 Back", cbCancel)),
		),
		Edit: true,
	}
}

func aboutContentReply() router.Reply {
	return router.Reply{
		Text: "ℹ️ About the content bot\n\n" +
			"A demo of an AI content generation bot.\n\n" +
			"Features:\n" +
			"• Post generation for 5+ platforms\n" +
			"• Post templates and structures\n" +
			"• Style adaptation\n\n" +
			"Real generation needs a configured completion API key; " +
			"without one the bot serves curated examples.",
		Menu: router.Menu(
			router.Row(router.Btn("📝 Generate a post", cbGeneratePost)),
			router.Row(router.Btn("🔙 Back", cbCancel)),
		),
		Edit: true,
	}
}
