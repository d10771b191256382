package bot

import "testing"

func TestNormalizerCleansNames(t *testing.T) {
	n := NewNormalizer()
	n.SetIdentity("Helper Bot (bot)")

	full, short := n.Identity()
	if full != "Helper Bot" {
		t.Fatalf("unexpected full name %q", full)
	}
	if short != "Helper" {
		t.Fatalf("unexpected short name %q", short)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full name consumed before short name", "Helper Bot, what's the weather", ", what's the weather"},
		{"short name alone", "Helper what's up", " what's up"},
		{"all occurrences removed", "Helper Bot Helper Bot hi", "  hi"},
		{"no mention", "what's the weather", "what's the weather"},
		{"substring match mangles words", "I need a Helpering hand", "I need a ing hand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Clean(tt.in); got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizerUnknownIdentityPassesThrough(t *testing.T) {
	n := NewNormalizer()
	in := "Helper Bot, what's the weather"
	if got := n.Clean(in); got != in {
		t.Fatalf("expected passthrough without identity, got %q", got)
	}
}

func TestNormalizerSingleWordName(t *testing.T) {
	n := NewNormalizer()
	n.SetIdentity("Relay(bot)")
	full, short := n.Identity()
	if full != "Relay" {
		t.Fatalf("unexpected full name %q", full)
	}
	if short != "" {
		t.Fatalf("expected no short name for single-word display name, got %q", short)
	}
	if got := n.Clean("Relay hi"); got != " hi" {
		t.Fatalf("unexpected clean result %q", got)
	}
}
