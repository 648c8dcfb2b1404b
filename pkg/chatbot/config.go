package chatbot

import (
	"fmt"
	"strings"

	"github.com/jmcdice/irssai/pkg/transcript"
)

// DefaultPersona is the seed instruction used when a bot has none configured.
const DefaultPersona = "You are a friendly and helpful assistant. " +
	"Respond in a conversational and approachable manner, " +
	"using clear and concise language. " +
	"Feel free to use a touch of humor where appropriate."

const (
	DefaultGPTModel      = "gpt-4"
	DefaultOllamaModel   = "llama3.2"
	DefaultOllamaBaseURL = "http://localhost:11434/v1"
	// Local OpenAI-compatible servers ignore the key but the SDK requires one.
	PlaceholderAPIKey = "not-needed"
)

// Config describes one bot: where its completions come from and how it
// manages its conversation.
type Config struct {
	Name    string `yaml:"name" json:"name"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	APIKey  string `yaml:"api_key" json:"api_key"`
	// APIKeyEnv names an environment variable to read the key from when APIKey is empty.
	APIKeyEnv string `yaml:"api_key_env" json:"api_key_env"`
	Model     string `yaml:"model" json:"model"`
	Persona   string `yaml:"persona" json:"persona"`
	// Headers are sent with every completion request.
	Headers map[string]string `yaml:"headers" json:"headers"`

	AugmentWithWebContent bool `yaml:"web_content" json:"web_content"`
	HistoryLimit          int  `yaml:"history_limit" json:"history_limit"`
	PinPersona            bool `yaml:"pin_persona" json:"pin_persona"`

	// CompletionTimeoutSecs bounds each completion call; 0 means no timeout.
	CompletionTimeoutSecs int  `yaml:"completion_timeout_seconds" json:"completion_timeout_seconds"`
	LogTokenEstimate      bool `yaml:"log_token_estimate" json:"log_token_estimate"`
}

func (c Config) WithDefaults() Config {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = "Bot"
	}
	if strings.TrimSpace(c.Persona) == "" {
		c.Persona = DefaultPersona
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = transcript.DefaultLimit
	}
	if c.CompletionTimeoutSecs < 0 {
		c.CompletionTimeoutSecs = 0
	}
	return c
}

// Validate reports configuration that can never produce a completion.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("bot %q: model is required", c.Name)
	}
	return nil
}

// GPTPreset is the hosted OpenAI bot. It injects the content of linked pages.
func GPTPreset(apiKey string) Config {
	return Config{
		Name:                  "GPT",
		APIKey:                apiKey,
		APIKeyEnv:             "OPENAI_API_KEY",
		Model:                 DefaultGPTModel,
		Persona:               DefaultPersona,
		AugmentWithWebContent: true,
		HistoryLimit:          transcript.DefaultLimit,
	}
}

// OllamaPreset is a bot backed by an OpenAI-compatible Ollama server.
func OllamaPreset(baseURL string) Config {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOllamaBaseURL
	}
	return Config{
		Name:         "Ollama",
		BaseURL:      baseURL,
		APIKey:       PlaceholderAPIKey,
		Model:        DefaultOllamaModel,
		Persona:      DefaultPersona,
		HistoryLimit: transcript.DefaultLimit,
	}
}
