// Package httputil adapts HTTP settings to the OpenAI SDK.
package httputil

import (
	"slices"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

// AppendHeaderOptions appends non-empty header values as OpenAI request
// options, in key order so requests are reproducible.
func AppendHeaderOptions(opts []option.RequestOption, headers map[string]string) []option.RequestOption {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		trimmed := strings.TrimSpace(headers[key])
		if strings.TrimSpace(key) == "" || trimmed == "" {
			continue
		}
		opts = append(opts, option.WithHeader(key, trimmed))
	}
	return opts
}
