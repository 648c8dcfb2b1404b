// Package aitokens estimates how many tokens a conversation will cost.
package aitokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jmcdice/irssai/pkg/transcript"
)

// fallbackEncoding is used for models tiktoken does not know, such as local llama models.
const fallbackEncoding = "cl100k_base"

var (
	tokenizerCache   = make(map[string]*tiktoken.Tiktoken)
	tokenizerCacheMu sync.RWMutex
)

// GetTokenizer returns a cached tiktoken encoder for the given model
func GetTokenizer(model string) (*tiktoken.Tiktoken, error) {
	tokenizerCacheMu.RLock()
	if tkm, ok := tokenizerCache[model]; ok {
		tokenizerCacheMu.RUnlock()
		return tkm, nil
	}
	tokenizerCacheMu.RUnlock()

	tokenizerCacheMu.Lock()
	defer tokenizerCacheMu.Unlock()

	if tkm, ok := tokenizerCache[model]; ok {
		return tkm, nil
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, err
		}
	}

	tokenizerCache[model] = tkm
	return tkm, nil
}

// Counter turns text into a token count.
type Counter interface {
	Count(text string) int
}

// CounterFunc adapts a function to the Counter interface.
type CounterFunc func(text string) int

func (f CounterFunc) Count(text string) int {
	return f(text)
}

type tiktokenCounter struct {
	tkm *tiktoken.Tiktoken
}

func (c tiktokenCounter) Count(text string) int {
	return len(c.tkm.Encode(text, nil, nil))
}

// CounterForModel returns a tiktoken-backed counter for model.
func CounterForModel(model string) (Counter, error) {
	tkm, err := GetTokenizer(model)
	if err != nil {
		return nil, err
	}
	return tiktokenCounter{tkm: tkm}, nil
}

// Token overhead per message, consistent across GPT chat models.
const (
	tokensPerMessage = 3
	replyPrimer      = 3
)

// Estimate counts tokens for a list of chat messages following the
// OpenAI cookbook accounting.
func Estimate(counter Counter, messages []transcript.Message) int {
	if counter == nil {
		return 0
	}
	total := 0
	for _, msg := range messages {
		total += tokensPerMessage
		total += counter.Count(msg.Content)
		total += counter.Count(string(msg.Role))
	}
	return total + replyPrimer
}

// EstimateTokens counts tokens for messages using the tokenizer for model.
func EstimateTokens(messages []transcript.Message, model string) (int, error) {
	counter, err := CounterForModel(model)
	if err != nil {
		return 0, err
	}
	return Estimate(counter, messages), nil
}
