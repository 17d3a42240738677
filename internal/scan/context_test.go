package scan

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestContext(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		budget int
		want   string
	}{
		{
			name:   "bounded by sentence on both sides",
			text:   "First clause ends here. The due date is 2024-03-01 for delivery. Next clause.",
			offset: 40,
			budget: 80,
			want:   "The due date is 2024-03-01 for delivery",
		},
		{
			name:   "clipped at budget when no delimiter",
			text:   strings.Repeat("x", 200) + " 2024-03-01 " + strings.Repeat("y", 200),
			offset: 201,
			budget: 40,
		},
		{
			name:   "offset at start of text",
			text:   "2024-03-01 is the delivery date. More text follows here.",
			offset: 0,
			budget: 80,
			want:   "2024-03-01 is the delivery date",
		},
		{
			name:   "newline bounds the window",
			text:   "line one before\nthe date 2024-03-01 here\nline three after",
			offset: 25,
			budget: 80,
			want:   "the date 2024-03-01 here",
		},
		{
			name:   "whitespace collapsed",
			text:   "due   date \t is\n2024-03-01",
			offset: 16,
			budget: 80,
			want:   "2024-03-01",
		},
		{
			name:   "empty text",
			text:   "",
			offset: 0,
			budget: 80,
			want:   "",
		},
		{
			name:   "zero budget",
			text:   "some text",
			offset: 2,
			budget: 0,
			want:   "",
		},
		{
			name:   "offset beyond text is clamped",
			text:   "short.",
			offset: 100,
			budget: 80,
			want:   "",
		},
		{
			name:   "negative offset is clamped",
			text:   "Due on 2024-03-01 soon.",
			offset: -5,
			budget: 80,
			want:   "Due on 2024-03-01 soon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Context(tt.text, tt.offset, tt.budget)
			if tt.want != "" && got != tt.want {
				t.Errorf("Context() = %q, want %q", got, tt.want)
			}
			if len(got) > tt.budget+1 {
				t.Errorf("window length %d exceeds budget %d: %q", len(got), tt.budget, got)
			}
		})
	}
}

// Identical inputs must always yield the identical window.
func TestContextDeterministic(t *testing.T) {
	text := "The supplier delivers by 2024-03-01. Late delivery incurs penalties."
	first := Context(text, 25, 80)
	for i := 0; i < 5; i++ {
		if got := Context(text, 25, 80); got != first {
			t.Fatalf("Context not deterministic: %q vs %q", got, first)
		}
	}
}

// Budget boundaries never split a multi-byte rune.
func TestContextUTF8Safe(t *testing.T) {
	text := strings.Repeat("日", 50) + "2024-03-01" + strings.Repeat("本", 50)
	for budget := 1; budget <= 30; budget++ {
		got := Context(text, 150, budget)
		if !utf8.ValidString(got) {
			t.Fatalf("budget %d produced invalid UTF-8: %q", budget, got)
		}
	}
}

// The newline bound in the line above the match never leaks into the
// window, regardless of budget.
func TestContextNeverCrossesDelimiter(t *testing.T) {
	text := "secret clause one.\npublic clause with 2024-03-01 inside\nsecret clause two."
	for _, budget := range []int{20, 80, 150, 1000} {
		got := Context(text, 38, budget)
		if strings.Contains(got, "secret") {
			t.Errorf("budget %d: window crossed a delimiter: %q", budget, got)
		}
	}
}
