package fetch

const (
	DefaultTimeoutSecs  = 10
	DefaultMaxChars     = 2000
	DefaultMaxBodyBytes = 10 * 1024 * 1024
	DefaultMaxRedirects = 5
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Config controls how pages are downloaded and reduced to text.
type Config struct {
	TimeoutSecs       int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	UserAgent         string `yaml:"user_agent" json:"user_agent"`
	MaxChars          int    `yaml:"max_chars" json:"max_chars"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
	MaxRedirects      int    `yaml:"max_redirects" json:"max_redirects"`
	BlockPrivateHosts bool   `yaml:"block_private_hosts" json:"block_private_hosts"`
}

func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	return c
}
