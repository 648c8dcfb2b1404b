package config

import (
	"os"
	"strings"

	"github.com/jmcdice/irssai/pkg/chatbot"
	"github.com/jmcdice/irssai/pkg/fetch"
	"github.com/jmcdice/irssai/pkg/shared/stringutil"
)

// ApplyEnvDefaults fills empty fields from environment variables:
// bot API keys from each bot's api_key_env, IRSSAI_OLLAMA_BASE_URL for bots
// still pointing at the default Ollama address, IRSSAI_LOG_LEVEL and the
// FETCH_* variables.
func ApplyEnvDefaults(cfg *Config) *Config {
	cfg = cfg.WithDefaults()

	ollamaURL := strings.TrimSpace(os.Getenv("IRSSAI_OLLAMA_BASE_URL"))
	for i := range cfg.Bots {
		bot := &cfg.Bots[i]
		if bot.APIKeyEnv != "" {
			bot.APIKey = stringutil.FirstNonEmpty(bot.APIKey, os.Getenv(bot.APIKeyEnv))
		}
		if ollamaURL != "" && bot.BaseURL == chatbot.DefaultOllamaBaseURL {
			bot.BaseURL = ollamaURL
		}
	}

	cfg.Logging.Level = stringutil.EnvOr(cfg.Logging.Level, os.Getenv("IRSSAI_LOG_LEVEL"))
	fetch.ApplyEnvDefaults(&cfg.Fetch)
	return cfg
}
