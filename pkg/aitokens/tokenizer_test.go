package aitokens

import (
	"strings"
	"testing"

	"github.com/jmcdice/irssai/pkg/transcript"
)

func wordCounter() Counter {
	return CounterFunc(func(text string) int {
		return len(strings.Fields(text))
	})
}

func TestEstimateAddsPerMessageOverhead(t *testing.T) {
	messages := []transcript.Message{
		transcript.Persona("be very nice"),
		transcript.User("hello there"),
	}
	// (3 + 3 + 1) + (3 + 2 + 1) + 3
	if got := Estimate(wordCounter(), messages); got != 16 {
		t.Fatalf("expected 16 tokens, got %d", got)
	}
}

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate(wordCounter(), nil); got != replyPrimer {
		t.Fatalf("expected only the reply primer, got %d", got)
	}
	if got := Estimate(nil, []transcript.Message{transcript.User("x")}); got != 0 {
		t.Fatalf("expected 0 without a counter, got %d", got)
	}
}
