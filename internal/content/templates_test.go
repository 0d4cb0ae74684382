package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptSubstitutesTopic(t *testing.T) {
	for _, platform := range Platforms {
		prompt := BuildPrompt(platform, "summer sale")
		assert.Contains(t, prompt, "summer sale", "platform %s", platform)
		assert.NotContains(t, prompt, "{topic}", "platform %s", platform)
	}
}

func TestBuildPromptUnknownPlatformUsesTelegramTemplate(t *testing.T) {
	assert.Equal(t, BuildPrompt("telegram", "x"), BuildPrompt("myspace", "x"))
}

func TestFallbackMatchesPromptPlatform(t *testing.T) {
	// Every template names its own platform, so the fallback recovers
	// the right example from the prompt alone.
	for _, platform := range Platforms {
		prompt := BuildPrompt(platform, "anything")
		assert.Equal(t, cannedExamples[platform], FallbackFor(prompt), "platform %s", platform)
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	prompt := BuildPrompt("twitter", "product launch")
	first := FallbackFor(prompt)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FallbackFor(prompt))
	}
}

func TestFallbackDefaultsToTelegram(t *testing.T) {
	assert.Equal(t, cannedExamples["telegram"], FallbackFor("no platform token here"))
}

func TestFallbackIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, cannedExamples["vk"], FallbackFor("Write a post for VK about: cats"))
}

func TestPlatformNames(t *testing.T) {
	assert.Equal(t, "Twitter", PlatformName("twitter"))
	assert.Equal(t, "myspace", PlatformName("myspace"))
	assert.True(t, KnownPlatform("blog"))
	assert.False(t, KnownPlatform("myspace"))
}

func TestCannedExamplesCoverAllPlatforms(t *testing.T) {
	for _, platform := range Platforms {
		text, ok := cannedExamples[platform]
		assert.True(t, ok, "platform %s", platform)
		assert.NotEmpty(t, strings.TrimSpace(text), "platform %s", platform)
	}
}
