package content

import "strings"

// Platforms, in menu order. The order also fixes fallback scanning so
// that the same prompt always maps to the same canned example.
var Platforms = []string{"telegram", "instagram", "vk", "twitter", "blog"}

var platformNames = map[string]string{
	"telegram":  "Telegram",
	"instagram": "Instagram",
	"vk":        "VK",
	"twitter":   "Twitter",
	"blog":      "Blog",
}

// PlatformName returns the display name for a platform id, falling back
// to the id itself for unknown values.
func PlatformName(platform string) string {
	if name, ok := platformNames[platform]; ok {
		return name
	}
	return platform
}

func KnownPlatform(platform string) bool {
	_, ok := platformNames[platform]
	return ok
}

// Per-platform prompt templates with a single {topic} substitution.
// Each template carries the platform token so the canned fallback can
// recover the platform from the prompt alone.
var platformPrompts = map[string]string{
	"telegram":  "Write a post for a Telegram channel about: {topic}. The post should be informative, with emoji, hashtags and a call to action. Length: 2-3 paragraphs.",
	"instagram": "Write an Instagram post about: {topic}. Include a caption with 10-15 hashtags, emoji and a call to action. Length: 150-250 words.",
	"vk":        "Write a post for VK about: {topic}. Use an informal tone, emoji and hashtags. Add a question to engage the audience. Length: 200-300 words.",
	"twitter":   "Write a post for Twitter about: {topic}. Limit: 280 characters. Use hashtags and emoji. Make it catchy.",
	"blog":      "Write a blog article about: {topic}. Structure: introduction, main part (3-5 points), conclusion. Length: 500-700 words.",
}

// BuildPrompt substitutes the topic into the platform template. Unknown
// platforms use the telegram template.
func BuildPrompt(platform, topic string) string {
	tpl, ok := platformPrompts[platform]
	if !ok {
		tpl = platformPrompts["telegram"]
	}
	return strings.ReplaceAll(tpl, "{topic}", topic)
}

// Canned examples served when the completion service is unavailable or
// unconfigured.
var cannedExamples = map[string]string{
	"telegram": `🚀 The next big shift in digital marketing is here!

Personalized content is taking over in 2025. Here is what you need to know:

• AI assistants help craft unique content for every reader
• Short video formats dominate social feeds (Reels, Shorts, TikTok)
• Interactivity is the key to engagement (polls, quizzes, games)

🔥 Tip: start testing AI tools today, not next quarter!

#marketing #trends2025 #digital #content #AI`,

	"instagram": `✨ Personalized content is the new must-have in digital! 🎯

The top trends of 2025:
✅ AI helpers for one-of-a-kind content
✅ Short videos rule every feed
✅ Interactive formats for maximum engagement

💡 Do not fall behind — try the new tools now!

What do you think about these trends? 👇

#trends2025 #digitalmarketing #content #socialmedia #instagram #marketing #SMM #AI #growth #creator`,

	"vk": `Personalized content is everywhere this year 🚀

Honestly, the brands that figured this out early are already winning. AI assistants write drafts in seconds, short videos pull most of the views, and interactive posts keep people around twice as long.

The best part: none of this needs a big budget anymore. A small team with the right tools can outrun a whole agency.

Have you tried letting AI draft your posts yet? Tell us how it went 👇

#marketing #AI #content #trends`,

	"twitter": `Personalized content is eating digital marketing 🚀 AI drafts, short video, interactive posts — the 2025 playbook in one line. Start testing today or catch up tomorrow. #marketing #AI #trends2025`,

	"blog": `# Personalized Content: the Defining Digital Marketing Trend of 2025

## Introduction
The digital landscape moves fast, and 2025 brings a clear message: generic content no longer earns attention. The brands that win are the ones that speak to each reader individually.

## Main part

### 1. AI assistants in content production
Tools built on large language models now draft unique copy for every audience segment. What used to be expensive and slow is accessible to any team.

### 2. The dominance of short video
Reels, Shorts and TikTok set the pace. Short, dynamic clips capture attention better than any wall of text.

### 3. Interactivity as the baseline
Polls, quizzes and interactive stories turn passive readers into participants — and participants convert.

### 4. Data you actually own
First-party signals replace third-party cookies. Collecting preferences directly is both compliant and more accurate.

## Conclusion
Personalization has stopped being optional. The brands adopting these tools today will set the standard tomorrow.`,
}

// FallbackFor picks the canned example for the platform mentioned in the
// prompt, scanning in fixed platform order and defaulting to the
// telegram example when no platform token is found.
func FallbackFor(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, platform := range Platforms {
		if strings.Contains(lower, platform) {
			return cannedExamples[platform]
		}
	}
	return cannedExamples["telegram"]
}
