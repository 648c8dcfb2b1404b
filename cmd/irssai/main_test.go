package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	body := `
bots:
  - name: Echo
    base_url: ` + baseURL + `
    api_key: not-needed
    model: test-model
  - name: Other
    base_url: ` + baseURL + `
    api_key: not-needed
    model: other-model
logging:
  level: error
  format: json
`
	path := filepath.Join(t.TempDir(), "irssai.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newCompletionServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"pong"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunChatsWithSelectedBot(t *testing.T) {
	var calls atomic.Int32
	server := newCompletionServer(t, &calls)
	cfgPath := writeConfig(t, server.URL)

	stdin := strings.NewReader("ping\n\n/reset\n/quit\nnever sent\n")
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--config", cfgPath, "--bot", "echo"}, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr.String())
	}

	if calls.Load() != 1 {
		t.Fatalf("expected exactly one completion call, got %d", calls.Load())
	}
	line := regexp.MustCompile(`(?m)^\d{2}:\d{2} Echo: pong$`)
	if !line.MatchString(stdout.String()) {
		t.Fatalf("expected formatted reply, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "\x1b[") {
		t.Fatalf("expected no color when stdout is not a terminal")
	}
	if !strings.Contains(stdout.String(), "Conversations reset.") {
		t.Fatalf("expected reset confirmation, got %q", stdout.String())
	}
}

func TestRunFansOutToAllBots(t *testing.T) {
	var calls atomic.Int32
	server := newCompletionServer(t, &calls)
	cfgPath := writeConfig(t, server.URL)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-c", cfgPath}, strings.NewReader("hi\n"), &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one call per bot, got %d", calls.Load())
	}
	out := stdout.String()
	if !strings.Contains(out, " Echo: pong\n") || !strings.Contains(out, " Other: pong\n") {
		t.Fatalf("expected replies from both bots, got %q", out)
	}
	if strings.Index(out, "Echo") > strings.Index(out, "Other") {
		t.Fatalf("expected bots to answer in configuration order, got %q", out)
	}
}

func TestRunUnknownBot(t *testing.T) {
	var calls atomic.Int32
	server := newCompletionServer(t, &calls)
	cfgPath := writeConfig(t, server.URL)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", cfgPath, "-b", "missing"}, strings.NewReader(""), &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unknown bot") {
		t.Fatalf("expected unknown bot error, got %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--version"}, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "irssai ") {
		t.Fatalf("unexpected version output: %q", stdout.String())
	}
}

func TestRunRejectsExtraArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"extra"}, strings.NewReader(""), &stdout, &stderr); err == nil {
		t.Fatalf("expected error for positional argument")
	}
}
