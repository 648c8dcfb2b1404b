// Package chatbot drives a conversation with a completion endpoint, keeping a
// bounded transcript and optionally injecting the text of linked web pages.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/jmcdice/irssai/pkg/aierrors"
	"github.com/jmcdice/irssai/pkg/aitokens"
	"github.com/jmcdice/irssai/pkg/aiutil"
	"github.com/jmcdice/irssai/pkg/completion"
	"github.com/jmcdice/irssai/pkg/display"
	"github.com/jmcdice/irssai/pkg/fetch"
	"github.com/jmcdice/irssai/pkg/shared/httputil"
	"github.com/jmcdice/irssai/pkg/transcript"
	"github.com/jmcdice/irssai/pkg/urlextract"
)

// ContentFetcher turns a URL into text. Implementations never fail; problems
// are described in the returned text.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) string
	Close() error
}

// Bot is one conversation with one completion endpoint. Turns are serialised.
type Bot struct {
	cfg       Config
	identity  display.Identity
	client    completion.Client
	fetcher   ContentFetcher
	counter   aitokens.Counter
	log       zerolog.Logger
	sessionID xid.ID

	mu      sync.Mutex
	history *transcript.Transcript
}

// Option customises a Bot at construction.
type Option func(*Bot)

// WithClient replaces the OpenAI client built from the config.
func WithClient(client completion.Client) Option {
	return func(b *Bot) {
		b.client = client
	}
}

// WithFetcher replaces the default page fetcher.
func WithFetcher(fetcher ContentFetcher) Option {
	return func(b *Bot) {
		b.fetcher = fetcher
	}
}

// WithFetchConfig configures the default page fetcher.
func WithFetchConfig(cfg *fetch.Config) Option {
	return func(b *Bot) {
		if b.fetcher == nil && b.cfg.AugmentWithWebContent {
			b.fetcher = fetch.NewFetcher(cfg, b.log)
		}
	}
}

// WithIdentity sets the display identity instead of a random color.
func WithIdentity(identity display.Identity) Option {
	return func(b *Bot) {
		b.identity = identity
	}
}

// WithTokenCounter sets the counter used for token estimate logging.
func WithTokenCounter(counter aitokens.Counter) Option {
	return func(b *Bot) {
		b.counter = counter
	}
}

// New creates a bot. The persona is copied into a transcript owned by this bot.
func New(cfg Config, log zerolog.Logger, opts ...Option) (*Bot, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sessionID := xid.New()
	b := &Bot{
		cfg:       cfg,
		identity:  display.NewIdentity(cfg.Name),
		sessionID: sessionID,
		log: log.With().
			Str("component", "chatbot").
			Str("bot", cfg.Name).
			Str("session_id", sessionID.String()).
			Logger(),
	}
	b.history = transcript.New(transcript.Persona(cfg.Persona), cfg.HistoryLimit, cfg.PinPersona)
	for _, opt := range opts {
		opt(b)
	}
	if b.client == nil {
		headers := httputil.AppendHeaderOptions(nil, cfg.Headers)
		b.client = completion.NewOpenAIClientWithBaseURL(cfg.APIKey, cfg.BaseURL, b.log, headers...)
	}
	if b.fetcher == nil && cfg.AugmentWithWebContent {
		b.fetcher = fetch.NewFetcher(nil, b.log)
	}
	if b.counter == nil && cfg.LogTokenEstimate {
		counter, err := aitokens.CounterForModel(cfg.Model)
		if err != nil {
			b.log.Warn().Err(err).Msg("Token estimates disabled: tokenizer unavailable")
		} else {
			b.counter = counter
		}
	}
	return b, nil
}

// Name returns the bot's display name.
func (b *Bot) Name() string {
	return b.cfg.Name
}

// Identity returns how the bot is rendered in the terminal.
func (b *Bot) Identity() display.Identity {
	return b.identity
}

// Config returns the resolved configuration.
func (b *Bot) Config() Config {
	return b.cfg
}

// Messages returns a copy of the current transcript.
func (b *Bot) Messages() []transcript.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Messages()
}

// Turn runs one user turn and always returns printable text. Failures are
// returned as "Error: ..." and recorded as the assistant's reply.
func (b *Bot) Turn(ctx context.Context, message string) string {
	reply, _ := b.TurnResult(ctx, message)
	return reply
}

// TurnResult is Turn with the failure, if any, reported separately. The reply
// is always set; on failure it is the same "Error: ..." text Turn returns.
func (b *Bot) TurnResult(ctx context.Context, message string) (reply string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, log := aiutil.WithTurnLogger(ctx, b.log, uuid.NewString())
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during turn: %v", r)
		}
		if err != nil {
			reply = "Error: " + err.Error()
			b.history.Append(transcript.Assistant(reply))
			log.Warn().Err(err).
				Str("error_class", string(aierrors.Classify(err))).
				Msg("Turn failed")
		}
		b.history.Trim()
		log.Debug().
			Int("history_len", b.history.Len()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("Turn finished")
	}()

	return b.turn(ctx, message)
}

func (b *Bot) turn(ctx context.Context, message string) (string, error) {
	log := aiutil.LoggerFromContext(ctx, b.log)

	if b.cfg.AugmentWithWebContent && b.fetcher != nil {
		for _, url := range urlextract.Extract(message) {
			content := b.fetcher.Fetch(ctx, url)
			if content == "" {
				log.Debug().Str("url", url).Msg("Skipping empty page content")
				continue
			}
			b.history.Append(transcript.System(fmt.Sprintf("Content from %s:\n%s", url, content)))
		}
	}

	b.history.Append(transcript.User(message))

	req := completion.Request{
		Model:    b.cfg.Model,
		Messages: b.history.Messages(),
		Sampling: completion.DefaultSampling,
	}
	if b.counter != nil {
		log.Debug().
			Int("estimated_prompt_tokens", aitokens.Estimate(b.counter, req.Messages)).
			Msg("Estimated prompt size")
	}

	callCtx := ctx
	if b.cfg.CompletionTimeoutSecs > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(b.cfg.CompletionTimeoutSecs)*time.Second)
		defer cancel()
	}
	resp, err := b.client.Complete(callCtx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("completion returned no response")
	}

	b.history.Append(transcript.Assistant(resp.Content))
	log.Debug().
		Str("finish_reason", resp.FinishReason).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("Completion received")
	return resp.Content, nil
}

// Reset replaces the transcript with a fresh one holding only the persona.
func (b *Bot) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.Reset()
}

// Close releases the bot's network resources. It is safe to call more than
// once; a later turn reopens them on demand.
func (b *Bot) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fetcher != nil {
		return b.fetcher.Close()
	}
	return nil
}
