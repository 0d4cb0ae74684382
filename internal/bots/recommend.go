package bots

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"botfolio/internal/analytics"
	"botfolio/internal/router"
	"botfolio/internal/store"
)

// Recommendation callback tokens.
const (
	cbGoalPrefix   = "goal_"
	cbBudgetPrefix = "budget_"
	cbBackToGoal   = "back_to_goal"
	cbNewSearch    = "new_search"
	cbAllRecs      = "all_recommendations"
)

// Product is one recommended item with an affiliate link.
type Product struct {
	Name        string
	Description string
	Price       string
	Link        string
}

// catalog is the static category × budget-tier lookup table. Pairs that
// are absent produce the "no recommendation" reply, never a
// nearest-match substitute.
var catalog = map[string]map[string]Product{
	"gaming": {
		"low": {
			Name:        "Redragon Griffin gaming mouse",
			Description: "RGB gaming mouse, 5 buttons, 7200 DPI",
			Price:       "1 890₽",
			Link:        "https://www.wildberries.ru/catalog/12345678/detail.aspx",
		},
		"medium": {
			Name:        "A4Tech Bloody gaming keyboard",
			Description: "Mechanical keyboard with red switches, backlit",
			Price:       "4 590₽",
			Link:        "https://www.ozon.ru/product/123456789/",
		},
		"high": {
			Name:        "ASUS TUF Gaming laptop",
			Description: "15.6\", RTX 4050, 16 GB RAM, 512 GB SSD",
			Price:       "89 990₽",
			Link:        "https://www.dns-shop.ru/product/123456789/",
		},
	},
	"work": {
		"low": {
			Name:        "Sony MDR-ZX110 headphones",
			Description: "Wired office headphones, foldable design",
			Price:       "990₽",
			Link:        "https://www.wildberries.ru/catalog/87654321/detail.aspx",
		},
		"medium": {
			Name:        "Samsung 24\" monitor",
			Description: "IPS panel, 75 Hz, HDMI",
			Price:       "12 990₽",
			Link:        "https://www.ozon.ru/product/987654321/",
		},
		"high": {
			Name:        "Apple MacBook Air M1",
			Description: "13.3\", 8 GB RAM, 256 GB SSD, macOS",
			Price:       "89 990₽",
			Link:        "https://www.dns-shop.ru/product/987654321/",
		},
	},
}

var goalNames = map[string]string{
	"gaming":     "🎮 Gaming",
	"work":       "💼 Work",
	"media":      "🎵 Media/Streaming",
	"components": "🖥️ PC parts",
}

// Recommend suggests gear from the static catalog: pick a category,
// pick a budget tier, get the item.
type Recommend struct {
	events *analytics.Logger
	log    *zap.Logger
}

func NewRecommend(events *analytics.Logger, log *zap.Logger) *Recommend {
	return &Recommend{events: events, log: log}
}

func (r *Recommend) Start(_ context.Context, _ router.Update) router.Reply {
	return router.Reply{
		Text: "🛒 Gear advisor\n\n" +
			"I help pick hardware for your needs and budget.\n" +
			"Every recommendation links to a trusted store through an affiliate link.\n\n" +
			"First, pick what you mainly need it for:",
		Menu: goalMenu(),
	}
}

func (r *Recommend) HandleText(_ context.Context, _ router.Update) (router.Reply, bool) {
	return router.Reply{}, false
}

func (r *Recommend) HandleCallback(_ context.Context, up router.Update) (router.Reply, bool) {
	switch {
	case strings.HasPrefix(up.Callback, cbBudgetPrefix):
		return r.recommend(up), true
	case strings.HasPrefix(up.Callback, cbGoalPrefix):
		goal := strings.TrimPrefix(up.Callback, cbGoalPrefix)
		name, ok := goalNames[goal]
		if !ok {
			name = goal
		}
		return router.Reply{
			Text: fmt.Sprintf("Goal: %s\n\nNow pick your budget:", name),
			Menu: budgetMenu(goal),
			Edit: true,
		}, true
	case up.Callback == cbBackToGoal || up.Callback == cbNewSearch:
		return router.Reply{Text: "Pick what you mainly need it for:", Menu: goalMenu(), Edit: true}, true
	case up.Callback == cbAllRecs:
		return r.allRecommendations(), true
	}
	return router.Reply{}, false
}

func (r *Recommend) recommend(up router.Update) router.Reply {
	// Token layout: budget_<goal>_<tier>
	parts := strings.Split(up.Callback, "_")
	if len(parts) < 3 {
		return router.Reply{Text: "Pick what you mainly need it for:", Menu: goalMenu(), Edit: true}
	}
	goal, tier := parts[1], parts[2]

	item, ok := lookup(goal, tier)
	if !ok {
		return router.Reply{
			Text: "😕 Sorry, there is no recommendation for that combination.\n" +
				"Try different settings.",
			Menu: router.Menu(router.Row(router.Btn("🔄 New search", cbNewSearch))),
			Edit: true,
		}
	}

	r.events.Log(up.UserID, up.Username, "recommendation_shown", string(store.ModeRecommend),
		fmt.Sprintf("%s/%s: %s", goal, tier, item.Name))
	return router.Reply{
		Text: fmt.Sprintf("🎯 Recommendation: %s\n\n", item.Name) +
			fmt.Sprintf("📝 Description: %s\n", item.Description) +
			fmt.Sprintf("💰 Price: %s\n\n", item.Price) +
			"Use the link below to buy 👇",
		Menu: router.Menu(
			router.Row(router.URLBtn("🛒 Open the product", item.Link)),
			router.Row(router.Btn("🔄 New search", cbNewSearch)),
			router.Row(router.Btn("📋 All recommendations", cbAllRecs)),
		),
		Edit: true,
	}
}

func lookup(goal, tier string) (Product, bool) {
	tiers, ok := catalog[goal]
	if !ok {
		return Product{}, false
	}
	item, ok := tiers[tier]
	return item, ok
}

func (r *Recommend) allRecommendations() router.Reply {
	var b strings.Builder
	b.WriteString("📋 All recommendations by category:\n\n")
	for _, goal := range []string{"gaming", "work"} {
		b.WriteString(goalNames[goal] + ":\n")
		for _, tier := range []string{"low", "medium", "high"} {
			if item, ok := lookup(goal, tier); ok {
				b.WriteString(fmt.Sprintf("• %s — %s\n", item.Name, item.Price))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("For a pick tailored to you, start a new search.")
	return router.Reply{
		Text: b.String(),
		Menu: router.Menu(router.Row(router.Btn("🔄 New search", cbNewSearch))),
	}
}

func goalMenu() [][]router.Button {
	return router.Menu(
		router.Row(router.Btn("🎮 Gaming", cbGoalPrefix+"gaming")),
		router.Row(router.Btn("💼 Work", cbGoalPrefix+"work")),
		router.Row(router.Btn("🎵 Media/Streaming", cbGoalPrefix+"media")),
		router.Row(router.Btn("🖥️ PC parts", cbGoalPrefix+"components")),
	)
}

func budgetMenu(goal string) [][]router.Button {
	return router.Menu(
		router.Row(router.Btn("💰 Under 5 000₽", cbBudgetPrefix+goal+"_low")),
		router.Row(router.Btn("💸 5 000 – 30 000₽", cbBudgetPrefix+goal+"_medium")),
		router.Row(router.Btn("💎 Over 30 000₽", cbBudgetPrefix+goal+"_high")),
		router.Row(router.Btn("🔙 Back to goals", cbBackToGoal)),
	)
}
