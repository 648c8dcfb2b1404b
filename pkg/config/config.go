// Package config loads bot, fetch and logging settings from a YAML or JSON5
// file and fills the gaps from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"github.com/jmcdice/irssai/pkg/chatbot"
	"github.com/jmcdice/irssai/pkg/fetch"
)

// Config is the top-level configuration file.
type Config struct {
	Bots    []chatbot.Config `yaml:"bots" json:"bots"`
	Fetch   fetch.Config     `yaml:"fetch" json:"fetch"`
	Logging LoggingConfig    `yaml:"logging" json:"logging"`
	// Color forces ANSI colors on or off; nil means auto-detect.
	Color *bool `yaml:"color" json:"color"`
}

// LoggingConfig controls the diagnostic log written to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the two stock bots: hosted GPT and a local Ollama server.
func Default() *Config {
	return (&Config{
		Bots: []chatbot.Config{
			chatbot.GPTPreset(""),
			chatbot.OllamaPreset(""),
		},
	}).WithDefaults()
}

// Load reads path. An empty path yields the default configuration.
// Files ending in .json or .json5 are parsed as JSON5, everything else as YAML.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return ApplyEnvDefaults(Default()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return ApplyEnvDefaults(cfg), nil
}

// Parse decodes data using the format implied by ext.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(ext) {
	case ".json", ".json5":
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	return cfg.WithDefaults(), nil
}

func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if len(c.Bots) == 0 {
		c.Bots = []chatbot.Config{chatbot.GPTPreset(""), chatbot.OllamaPreset("")}
	}
	for i := range c.Bots {
		c.Bots[i] = c.Bots[i].WithDefaults()
	}
	c.Logging = c.Logging.withDefaults()
	return c
}

func (c LoggingConfig) withDefaults() LoggingConfig {
	if c.Level == "" {
		c.Level = zerolog.InfoLevel.String()
	}
	if c.Format == "" {
		c.Format = "console"
	}
	return c
}

// Validate checks every bot and rejects duplicate names.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Bots))
	for _, bot := range c.Bots {
		if err := bot.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(bot.Name)
		if seen[key] {
			return fmt.Errorf("duplicate bot name %q", bot.Name)
		}
		seen[key] = true
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return nil
}

// SelectBots returns the bots named in names, in that order. No names selects all bots.
func (c *Config) SelectBots(names []string) ([]chatbot.Config, error) {
	if len(names) == 0 {
		return slices.Clone(c.Bots), nil
	}
	out := make([]chatbot.Config, 0, len(names))
	for _, name := range names {
		idx := slices.IndexFunc(c.Bots, func(bot chatbot.Config) bool {
			return strings.EqualFold(bot.Name, strings.TrimSpace(name))
		})
		if idx < 0 {
			return nil, fmt.Errorf("unknown bot %q", name)
		}
		out = append(out, c.Bots[idx])
	}
	return out, nil
}

// NewLogger builds the process logger writing to w.
func (c LoggingConfig) NewLogger(w io.Writer) (zerolog.Logger, error) {
	c = c.withDefaults()
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", c.Level)
	}
	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
