package llm

import (
	"fmt"
	"strings"

	"botfolio/internal/config"
)

// NewFromConfig builds the completion client for the configured
// provider. It returns nil when the provider has no credentials, which
// callers treat as "real generation disabled".
func NewFromConfig(cfg *config.Config) (Client, error) {
	switch strings.ToLower(string(cfg.LLMProvider)) {
	case string(config.ProviderOpenAI):
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case string(config.ProviderYandex):
		if cfg.YandexOAuthToken == "" {
			return nil, nil
		}
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
