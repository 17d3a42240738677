package status

import (
	"testing"
	"time"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

func date(y, m, d int) types.CanonicalDate {
	return types.CanonicalDate{Year: y, Month: m, Day: d}
}

var today = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		due       types.CanonicalDate
		threshold int
		today     time.Time
		completed bool
		want      types.Status
		wantErr   bool
	}{
		{"far future is pending", date(2024, 4, 30), 7, today, false, types.StatusPending, false},
		{"one past threshold is pending", date(2024, 3, 23), 7, today, false, types.StatusPending, false},
		{"at threshold boundary", date(2024, 3, 22), 7, today, false, types.StatusDeadline, false},
		{"inside threshold", date(2024, 3, 18), 7, today, false, types.StatusDeadline, false},
		{"due today", date(2024, 3, 15), 7, today, false, types.StatusDeadline, false},
		{"due yesterday", date(2024, 3, 14), 7, today, false, types.StatusOverdue, false},
		{"long overdue", date(2023, 1, 1), 7, today, false, types.StatusOverdue, false},
		{"threshold one day due tomorrow", date(2024, 3, 16), 1, today, false, types.StatusDeadline, false},
		{"threshold one day due in two", date(2024, 3, 17), 1, today, false, types.StatusPending, false},

		// Completed short-circuits everything, even a bad threshold.
		{"completed pending record", date(2024, 4, 30), 7, today, true, types.StatusCompleted, false},
		{"completed overdue record", date(2023, 1, 1), 7, today, true, types.StatusCompleted, false},
		{"completed with zero threshold", date(2024, 4, 30), 0, today, true, types.StatusCompleted, false},

		// Threshold invariant.
		{"zero threshold rejected", date(2024, 4, 30), 0, today, false, "", true},
		{"negative threshold rejected", date(2024, 4, 30), -3, today, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.due, tt.threshold, tt.today, tt.completed)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got status %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Derive: %v", err)
			}
			if got != tt.want {
				t.Errorf("Derive = %q, want %q", got, tt.want)
			}
		})
	}
}

// Time of day never shifts the result: any clock reading on the same
// calendar day derives the same status.
func TestDeriveIgnoresTimeOfDay(t *testing.T) {
	due := date(2024, 3, 22)
	times := []time.Time{
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC),
	}

	first, err := Derive(due, 7, times[0], false)
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range times[1:] {
		got, err := Derive(due, 7, at, false)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Errorf("status at %v = %q, want %q", at, got, first)
		}
	}
}

func TestDeriveDeterministic(t *testing.T) {
	due := date(2024, 3, 20)
	first, err := Derive(due, 7, today, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := Derive(due, 7, today, false)
		if err != nil || got != first {
			t.Fatalf("call %d: got (%q, %v), want (%q, nil)", i, got, err, first)
		}
	}
}
