package httputil

import "testing"

func TestAppendHeaderOptionsSkipsEmptyValues(t *testing.T) {
	opts := AppendHeaderOptions(nil, map[string]string{
		"X-One":   "1",
		"X-Empty": "  ",
		"":        "orphan",
	})
	if len(opts) != 1 {
		t.Fatalf("expected one header option, got %d", len(opts))
	}
}
