package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"go.mau.fi/util/random"

	"github.com/jmcdice/irssai/pkg/transcript"
)

// OpenAIClient implements Client on top of the official OpenAI SDK. A custom
// base URL points it at any OpenAI-compatible server (Ollama, vLLM, ...).
type OpenAIClient struct {
	client  openai.Client
	log     zerolog.Logger
	baseURL string
}

// NewOpenAIClient creates a client for the default OpenAI endpoint.
func NewOpenAIClient(apiKey string, log zerolog.Logger) *OpenAIClient {
	return NewOpenAIClientWithBaseURL(apiKey, "", log)
}

// NewOpenAIClientWithBaseURL creates a client with a custom base URL.
// The SDK's automatic retries are disabled; a failed call fails the turn.
func NewOpenAIClientWithBaseURL(apiKey, baseURL string, log zerolog.Logger, extra ...option.RequestOption) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, option.WithMiddleware(makeRequestTraceMiddleware(log)))
	opts = append(opts, extra...)

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		log:     log.With().Str("component", "completion").Logger(),
		baseURL: baseURL,
	}
}

func newOutboundRequestID() string {
	return "irs_" + random.String(12)
}

func makeRequestTraceMiddleware(log zerolog.Logger) option.Middleware {
	traceLog := log.With().Str("component", "openai_http").Logger()
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		start := time.Now()
		requestID := strings.TrimSpace(req.Header.Get("x-request-id"))
		if requestID == "" {
			requestID = newOutboundRequestID()
			req.Header.Set("x-request-id", requestID)
		}
		reqHost, reqPath := "", ""
		if req.URL != nil {
			reqHost = req.URL.Host
			reqPath = req.URL.Path
		}

		traceLog.Debug().
			Str("request_id", requestID).
			Str("request_method", req.Method).
			Str("request_host", reqHost).
			Str("request_path", reqPath).
			Msg("Dispatching completion HTTP request")

		resp, err := next(req)
		elapsedMs := time.Since(start).Milliseconds()
		if err != nil {
			traceLog.Error().
				Err(err).
				Str("request_id", requestID).
				Str("request_host", reqHost).
				Int64("duration_ms", elapsedMs).
				Msg("Completion HTTP request failed")
			return nil, err
		}

		event := traceLog.Debug().
			Str("request_id", requestID).
			Str("request_host", reqHost).
			Int("status_code", resp.StatusCode).
			Int64("duration_ms", elapsedMs)
		if upstream := strings.TrimSpace(resp.Header.Get("x-request-id")); upstream != "" && upstream != requestID {
			event = event.Str("upstream_request_id", upstream)
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			event.Msg("Completion HTTP response error")
		} else {
			event.Msg("Completion HTTP response")
		}
		return resp, nil
	}
}

// ToChatMessages converts transcript messages into SDK message params.
func ToChatMessages(messages []transcript.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case transcript.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case transcript.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// Complete sends the conversation and returns the first choice.
func (o *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no chat messages for completion")
	}
	params := openai.ChatCompletionNewParams{
		Model:            req.Model,
		Messages:         ToChatMessages(req.Messages),
		Temperature:      openai.Float(req.Sampling.Temperature),
		TopP:             openai.Float(req.Sampling.TopP),
		FrequencyPenalty: openai.Float(req.Sampling.FrequencyPenalty),
		PresencePenalty:  openai.Float(req.Sampling.PresencePenalty),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logChatCompletionsFailure(o.log, err, params)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}

	choice := resp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func logChatCompletionsFailure(log zerolog.Logger, err error, params openai.ChatCompletionNewParams) {
	event := log.Warn().Err(err).
		Str("model", params.Model).
		Int("message_count", len(params.Messages))
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode != 0 {
			event.Int("status_code", apiErr.StatusCode)
		}
		if apiErr.Code != "" {
			event.Str("error_code", apiErr.Code)
		}
		if apiErr.Type != "" {
			event.Str("error_type", apiErr.Type)
		}
		if apiErr.Response != nil {
			if requestID := apiErr.Response.Header.Get("x-request-id"); requestID != "" {
				event.Str("request_id", requestID)
			}
		}
	}
	event.Msg("Chat Completions failure")
}
