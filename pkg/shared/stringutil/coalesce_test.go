package stringutil

import "testing"

func TestEnvOr(t *testing.T) {
	if got := EnvOr("keep", "  "); got != "keep" {
		t.Fatalf("expected existing value, got %q", got)
	}
	if got := EnvOr("keep", " new "); got != "new" {
		t.Fatalf("expected trimmed env value, got %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", " b ", "c"); got != "b" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
