package scan

import (
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantRaw  []string
		wantKind []types.PatternKind
	}{
		{
			name:     "iso date",
			text:     "Delivery due by 2024-03-01.",
			wantRaw:  []string{"2024-03-01"},
			wantKind: []types.PatternKind{types.PatternYearFirst},
		},
		{
			name:     "numeric slash date",
			text:     "Invoice dated 01/04/2024 is payable on receipt.",
			wantRaw:  []string{"01/04/2024"},
			wantKind: []types.PatternKind{types.PatternNumeric},
		},
		{
			name:     "numeric dash date",
			text:     "Terminate by 15-06-2024 at the latest.",
			wantRaw:  []string{"15-06-2024"},
			wantKind: []types.PatternKind{types.PatternNumeric},
		},
		{
			name:     "month day year",
			text:     "Renewal falls on March 1, 2024 unless terminated.",
			wantRaw:  []string{"March 1, 2024"},
			wantKind: []types.PatternKind{types.PatternMonthDay},
		},
		{
			name:     "day month year",
			text:     "Notice must be served by 1 March 2024.",
			wantRaw:  []string{"1 March 2024"},
			wantKind: []types.PatternKind{types.PatternDayMonth},
		},
		{
			name:     "abbreviated month",
			text:     "Due Sep 5, 2025 per schedule B.",
			wantRaw:  []string{"Sep 5, 2025"},
			wantKind: []types.PatternKind{types.PatternMonthDay},
		},
		{
			name:     "year first slashes",
			text:     "Effective 2024/3/1 through year end.",
			wantRaw:  []string{"2024/3/1"},
			wantKind: []types.PatternKind{types.PatternYearFirst},
		},
		{
			name: "multiple dates in source order",
			text: "Delivery due by 2024-03-01. Payment terms: Net 30, invoice date 01/04/2024.",
			wantRaw: []string{"2024-03-01", "01/04/2024"},
			wantKind: []types.PatternKind{
				types.PatternYearFirst, types.PatternNumeric,
			},
		},
		{
			name:    "no dates",
			text:    "This agreement contains no calendar references at all.",
			wantRaw: nil,
		},
		{
			name:    "empty text",
			text:    "",
			wantRaw: nil,
		},
		{
			name:    "bare numbers are not dates",
			text:    "Pay 30 days after receipt of 1500 units.",
			wantRaw: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.text, types.ScanConfig{})
			if len(got) != len(tt.wantRaw) {
				t.Fatalf("got %d candidates, want %d: %+v", len(got), len(tt.wantRaw), got)
			}
			for i, want := range tt.wantRaw {
				if got[i].RawText != want {
					t.Errorf("candidate[%d].RawText = %q, want %q", i, got[i].RawText, want)
				}
				if tt.wantKind != nil && got[i].Kind != tt.wantKind[i] {
					t.Errorf("candidate[%d].Kind = %q, want %q", i, got[i].Kind, tt.wantKind[i])
				}
			}
		})
	}
}

// Every candidate's raw text is a verbatim substring at its offset.
func TestCandidatesRawTextMatchesOffset(t *testing.T) {
	text := "Due 2024-03-01, then 15/06/2024, renewal on March 1, 2025 and 1 April 2026."
	for _, c := range Candidates(text, types.ScanConfig{}) {
		end := c.SourceOffset + len(c.RawText)
		if end > len(text) || text[c.SourceOffset:end] != c.RawText {
			t.Errorf("RawText %q not found at offset %d", c.RawText, c.SourceOffset)
		}
	}
}

func TestCandidatesSortedByOffset(t *testing.T) {
	text := "1 March 2024 then 2024-05-06 then 07/08/2024 then June 9, 2024."
	got := Candidates(text, types.ScanConfig{})
	if len(got) < 4 {
		t.Fatalf("got %d candidates, want at least 4", len(got))
	}
	sorted := sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].SourceOffset < got[j].SourceOffset
	})
	if !sorted {
		t.Errorf("candidates not in offset order: %+v", got)
	}
}

// Every pass runs independently; one pass finding a match never
// suppresses another pass's matches elsewhere in the text.
func TestCandidatesAllPassesRun(t *testing.T) {
	text := "Signed 2024-01-15, effective 2024/2/1, delivery 15/03/2024, " +
		"renewal March 4, 2025, termination 5 June 2026."
	got := Candidates(text, types.ScanConfig{})

	kinds := make(map[types.PatternKind]int)
	for _, c := range got {
		kinds[c.Kind]++
	}
	if kinds[types.PatternYearFirst] != 2 {
		t.Errorf("year-first matches = %d, want 2", kinds[types.PatternYearFirst])
	}
	for _, k := range []types.PatternKind{types.PatternNumeric, types.PatternMonthDay, types.PatternDayMonth} {
		if kinds[k] != 1 {
			t.Errorf("%s matches = %d, want 1", k, kinds[k])
		}
	}
}

func TestCandidatesContextWindows(t *testing.T) {
	text := "The supplier shall deliver all goods no later than 2024-03-01, " +
		"failing which the buyer may terminate this agreement without notice " +
		"and claim liquidated damages for the delay period."
	got := Candidates(text, types.ScanConfig{})
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}

	c := got[0]
	if c.ShortContext == "" || c.LongContext == "" {
		t.Fatalf("empty context windows: %+v", c)
	}
	if !strings.Contains(c.LongContext, "2024-03-01") {
		t.Errorf("long context %q does not contain the match", c.LongContext)
	}
	if len(c.ShortContext) > len(c.LongContext) {
		t.Errorf("short context longer than long context: %d > %d",
			len(c.ShortContext), len(c.LongContext))
	}
}

// Arbitrary input must never panic, whatever it contains.
func TestCandidatesAdversarialInput(t *testing.T) {
	inputs := []string{
		strings.Repeat("9", 10000),
		strings.Repeat("2024-03-01 ", 500),
		"\x00\x01\x02date?",
		"日付は 2024-03-01 です。",
		strings.Repeat("a\n", 1000),
		"////----1234",
	}
	for _, text := range inputs {
		// Each call must return without panicking.
		Candidates(text, types.ScanConfig{ShortContextLen: 10, LongContextLen: 20})
	}
}
