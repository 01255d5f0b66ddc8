package id

import (
	"regexp"
	"testing"
)

func TestUUIDFormat(t *testing.T) {
	got := UUID()
	uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !uuidRegex.MatchString(got) {
		t.Errorf("UUID() = %q, does not match UUID v4 format", got)
	}
}

func TestUUIDUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		got := UUID()
		if seen[got] {
			t.Fatalf("UUID() generated duplicate: %s", got)
		}
		seen[got] = true
	}
}

func TestShortLength(t *testing.T) {
	got := Short()
	if len(got) != 16 {
		t.Errorf("Short() length = %d, want 16", len(got))
	}
}

func TestShortUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		got := Short()
		if seen[got] {
			t.Fatalf("Short() generated duplicate: %s", got)
		}
		seen[got] = true
	}
}

func TestAlphanumericLengthAndCharset(t *testing.T) {
	got := Alphanumeric(24)
	if len(got) != 24 {
		t.Errorf("Alphanumeric(24) length = %d, want 24", len(got))
	}
	charsetRegex := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	if !charsetRegex.MatchString(got) {
		t.Errorf("Alphanumeric(24) = %q, contains characters outside charset", got)
	}
}

func TestAlphanumericZeroLength(t *testing.T) {
	got := Alphanumeric(0)
	if got != "" {
		t.Errorf("Alphanumeric(0) = %q, want empty string", got)
	}
}
