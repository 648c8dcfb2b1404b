package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmcdice/irssai/pkg/chatbot"
	"github.com/jmcdice/irssai/pkg/fetch"
	"github.com/jmcdice/irssai/pkg/transcript"
)

const yamlConfig = `
bots:
  - name: Helper
    model: gpt-4o-mini
    api_key_env: TEST_HELPER_KEY
    web_content: true
    history_limit: 6
    pin_persona: true
  - name: Local
    base_url: http://localhost:11434/v1
    api_key: not-needed
    model: llama3.2
    persona: You are a pirate.
fetch:
  max_chars: 500
logging:
  level: debug
color: false
`

const json5Config = `{
  // comments are allowed
  bots: [
    {name: "Solo", model: "gpt-4", web_content: true},
  ],
  logging: {level: "warn", format: "json"},
}`

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(yamlConfig), ".yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bots) != 2 {
		t.Fatalf("expected 2 bots, got %d", len(cfg.Bots))
	}
	helper := cfg.Bots[0]
	if helper.Name != "Helper" || helper.Model != "gpt-4o-mini" || !helper.AugmentWithWebContent || !helper.PinPersona || helper.HistoryLimit != 6 {
		t.Fatalf("unexpected helper config: %+v", helper)
	}
	if helper.Persona != chatbot.DefaultPersona {
		t.Fatalf("expected default persona, got %q", helper.Persona)
	}
	local := cfg.Bots[1]
	if local.Persona != "You are a pirate." || local.HistoryLimit != transcript.DefaultLimit {
		t.Fatalf("unexpected local config: %+v", local)
	}
	if cfg.Fetch.MaxChars != 500 {
		t.Fatalf("unexpected fetch config: %+v", cfg.Fetch)
	}
	if cfg.Color == nil || *cfg.Color {
		t.Fatalf("expected color to be forced off")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestParseJSON5(t *testing.T) {
	cfg, err := Parse([]byte(json5Config), ".json5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bots) != 1 || cfg.Bots[0].Name != "Solo" || !cfg.Bots[0].AugmentWithWebContent {
		t.Fatalf("unexpected bots: %+v", cfg.Bots)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadAppliesEnvironment(t *testing.T) {
	t.Setenv("TEST_HELPER_KEY", "sk-from-env")
	t.Setenv("IRSSAI_LOG_LEVEL", "error")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "4")

	path := filepath.Join(t.TempDir(), "irssai.yaml")
	if err := os.WriteFile(path, []byte(yamlConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bots[0].APIKey != "sk-from-env" {
		t.Fatalf("expected key from env, got %q", cfg.Bots[0].APIKey)
	}
	if cfg.Logging.Level != "error" {
		t.Fatalf("expected level from env, got %q", cfg.Logging.Level)
	}
	if cfg.Fetch.TimeoutSecs != 4 || cfg.Fetch.MaxChars != 500 {
		t.Fatalf("unexpected fetch config: %+v", cfg.Fetch)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-default")
	t.Setenv("IRSSAI_OLLAMA_BASE_URL", "https://tunnel.example.com/v1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bots) != 2 {
		t.Fatalf("expected stock bots, got %+v", cfg.Bots)
	}
	gpt, ollama := cfg.Bots[0], cfg.Bots[1]
	if gpt.Name != "GPT" || gpt.APIKey != "sk-default" || !gpt.AugmentWithWebContent {
		t.Fatalf("unexpected GPT bot: %+v", gpt)
	}
	if ollama.Name != "Ollama" || ollama.BaseURL != "https://tunnel.example.com/v1" || ollama.AugmentWithWebContent {
		t.Fatalf("unexpected Ollama bot: %+v", ollama)
	}
	if cfg.Fetch.TimeoutSecs != fetch.DefaultTimeoutSecs {
		t.Fatalf("unexpected fetch timeout: %d", cfg.Fetch.TimeoutSecs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	cfg := (&Config{Bots: []chatbot.Config{
		{Name: "A", Model: "m"},
		{Name: "a", Model: "m"},
	}}).WithDefaults()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestSelectBots(t *testing.T) {
	cfg := Default()
	bots, err := cfg.SelectBots([]string{"ollama"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bots) != 1 || bots[0].Name != "Ollama" {
		t.Fatalf("unexpected selection: %+v", bots)
	}
	all, err := cfg.SelectBots(nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected all bots, got %+v (%v)", all, err)
	}
	if _, err := cfg.SelectBots([]string{"nobody"}); err == nil {
		t.Fatalf("expected unknown bot error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := LoggingConfig{Level: "info", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"message":"shown"`) {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
	if _, err := (LoggingConfig{Level: "loud"}).NewLogger(&buf); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
