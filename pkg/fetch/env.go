package fetch

import (
	"os"
	"strconv"
	"strings"

	"github.com/jmcdice/irssai/pkg/shared/stringutil"
)

// ConfigFromEnv builds a fetch config using environment variables.
func ConfigFromEnv() *Config {
	cfg := &Config{}
	cfg.TimeoutSecs = envInt(os.Getenv("FETCH_TIMEOUT_SECONDS"))
	cfg.MaxChars = envInt(os.Getenv("FETCH_MAX_CHARS"))
	cfg.UserAgent = stringutil.EnvOr("", os.Getenv("FETCH_USER_AGENT"))
	return cfg.WithDefaults()
}

// ApplyEnvDefaults fills empty config fields from environment variables.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		return ConfigFromEnv()
	}
	envCfg := ConfigFromEnv()
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = envCfg.TimeoutSecs
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = envCfg.MaxChars
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = envCfg.UserAgent
	}
	return cfg.WithDefaults()
}

func envInt(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
