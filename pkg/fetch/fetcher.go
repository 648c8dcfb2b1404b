// Package fetch downloads web pages mentioned in chat and reduces them to
// plain text that can be injected into a conversation.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/rs/zerolog"
)

// StatusError is returned by FetchPage for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d fetching %s", e.StatusCode, e.URL)
}

// Page is the reduced form of a fetched document.
type Page struct {
	URL         string
	FinalURL    string
	Status      int
	ContentType string
	Title       string
	SiteName    string
	Text        string
	Truncated   bool
	TookMs      int64
}

// Fetcher retrieves pages over a lazily created HTTP client. A Fetcher
// belongs to a single bot; Close releases its idle connections.
type Fetcher struct {
	cfg Config
	log zerolog.Logger

	mu     sync.Mutex
	client *http.Client
}

// NewFetcher creates a fetcher. No network resources are held until the first fetch.
func NewFetcher(cfg *Config, log zerolog.Logger) *Fetcher {
	resolved := *cfg.WithDefaults()
	return &Fetcher{
		cfg: resolved,
		log: log.With().Str("component", "fetch").Logger(),
	}
}

func (f *Fetcher) httpClient() *http.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		maxRedirects := f.cfg.MaxRedirects
		f.client = &http.Client{
			Timeout:   time.Duration(f.cfg.TimeoutSecs) * time.Second,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	return f.client
}

// Open reports whether the fetcher currently holds an HTTP client.
func (f *Fetcher) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.client != nil
}

// Close releases the HTTP client. It is safe to call more than once and on
// a fetcher that never fetched anything.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		return nil
	}
	f.client.CloseIdleConnections()
	f.client = nil
	return nil
}

// Fetch returns the text content of rawURL. Failures are reported as
// diagnostic text instead of errors so the caller can always inject the result.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	page, err := f.FetchPage(ctx, rawURL)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			f.log.Debug().Str("url", rawURL).Int("status_code", statusErr.StatusCode).Msg("URL returned non-success status")
			return fmt.Sprintf("Failed to fetch URL: %s with status code %d", rawURL, statusErr.StatusCode)
		}
		f.log.Debug().Err(err).Str("url", rawURL).Msg("Failed to fetch URL")
		return fmt.Sprintf("Error fetching URL: %s. Error: %s", rawURL, err.Error())
	}
	return page.Text
}

// FetchPage downloads rawURL and extracts its text and OpenGraph metadata.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (page *Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("panic while fetching: %v", r)
		}
	}()

	if _, err = validateURL(rawURL, f.cfg.BlockPrivateHosts); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	text, err := ExtractText(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	text, truncated := Truncate(text, f.cfg.MaxChars)

	page = &Page{
		URL:         rawURL,
		FinalURL:    rawURL,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Text:        text,
		Truncated:   truncated,
		TookMs:      time.Since(start).Milliseconds(),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		page.FinalURL = resp.Request.URL.String()
	}

	og := opengraph.NewOpenGraph()
	if ogErr := og.ProcessHTML(bytes.NewReader(body)); ogErr == nil {
		page.Title = og.Title
		page.SiteName = og.SiteName
	}

	f.log.Debug().
		Str("url", rawURL).
		Str("final_url", page.FinalURL).
		Str("title", page.Title).
		Int("chars", len(page.Text)).
		Bool("truncated", truncated).
		Int64("duration_ms", page.TookMs).
		Msg("Fetched URL content")
	return page, nil
}
