// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dateparse normalizes raw matched date strings into canonical
// calendar dates. Implements: prd102-normalization (R1, R2);
//
//	docs/ARCHITECTURE § Normalization.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

// Outcome is the result of normalizing one raw date string: either a
// canonical date or an explicit unparseable marker carrying the
// original input. Unparseable is a named first-class value, not an
// error — callers surface it for manual correction instead of dropping
// the candidate (R1.4).
type Outcome struct {
	// Date is the canonical date when Parsed is true.
	Date types.CanonicalDate `json:"date,omitzero" yaml:"date,omitempty"`

	// Parsed distinguishes a canonical result from an unparseable one.
	Parsed bool `json:"parsed" yaml:"parsed"`

	// Original is the raw input, preserved verbatim so a consumer can
	// correct it by hand.
	Original string `json:"original" yaml:"original"`
}

// Canonical wraps a validated date in a parsed outcome.
func Canonical(d types.CanonicalDate, raw string) Outcome {
	return Outcome{Date: d, Parsed: true, Original: raw}
}

// Unparseable marks raw as found-but-unresolvable.
func Unparseable(raw string) Outcome {
	return Outcome{Original: raw}
}

// Policy fixes how locale-ambiguous numeric dates are resolved. The
// zero value is the day-first default; a deployment may flip to
// month-first through configuration (R2.4), but whichever policy is
// chosen applies uniformly to every string — there is no per-instance
// guessing.
type Policy struct {
	MonthFirst bool
}

// PolicyFromConfig builds a Policy from the normalization config.
func PolicyFromConfig(cfg types.NormalizeConfig) Policy {
	return Policy{MonthFirst: cfg.MonthFirst}
}

// Normalize resolves raw under the default day-first policy.
func Normalize(raw string) Outcome {
	return Policy{}.Normalize(raw)
}

var (
	yearFirstRe = regexp.MustCompile(`^(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})$`)
	numericRe   = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})$`)
	monthDayRe  = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	dayMonthRe  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+),?\s+(\d{4})$`)
)

// Normalize converts one raw matched string into an Outcome, applying
// the disambiguation rules in this fixed order:
//
//  1. A 4-digit-year-first numeric form (YYYY-M-D, YYYY/M/D) parses
//     directly — unambiguous.
//  2. A/B/YYYY where exactly one of A, B exceeds 12: the value above 12
//     is the day, the other the month — unambiguous by construction.
//  3. A/B/YYYY with both at most 12: the fixed policy default
//     (day-first unless MonthFirst is set).
//  4. Two-digit years are promoted by adding 2000.
//  5. Textual month-name forms parse by name lookup, case-insensitive,
//     abbreviations accepted.
//  6. A best-effort layout parse; anything still unresolved is
//     Unparseable.
//
// A result that would require calendar rollover — day 31 in a 30-day
// month, Feb 29 outside a leap year — is Unparseable, never silently
// corrected (R1.2, R1.3).
func (p Policy) Normalize(raw string) Outcome {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return Unparseable(raw)
	}

	if m := yearFirstRe.FindStringSubmatch(s); m != nil {
		return finish(raw, atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := numericRe.FindStringSubmatch(s); m != nil {
		a, b, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year < 100 {
			year += 2000
		}
		day, month := a, b
		switch {
		case a > 12 && b <= 12:
			day, month = a, b
		case b > 12 && a <= 12:
			day, month = b, a
		case p.MonthFirst:
			day, month = b, a
		}
		// Both above 12 falls through to finish, which rejects the month.
		return finish(raw, year, month, day)
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthIndex(m[1]); ok {
			return finish(raw, atoi(m[3]), month, atoi(m[2]))
		}
	}

	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthIndex(m[2]); ok {
			return finish(raw, atoi(m[3]), month, atoi(m[1]))
		}
	}

	return genericParse(raw, s)
}

// finish validates the triple against calendar rules. Any out-of-range
// component makes the whole input unparseable.
func finish(raw string, year, month, day int) Outcome {
	d, err := types.NewCanonicalDate(year, month, day)
	if err != nil {
		return Unparseable(raw)
	}
	return Canonical(d, raw)
}

var months = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// monthIndex resolves a month name or abbreviation (three letters or
// more, case-insensitive) to its 1-based index. Every 3-letter prefix
// is unique among the twelve names, so prefix matching is unambiguous.
func monthIndex(name string) (int, bool) {
	n := strings.ToLower(strings.TrimSuffix(name, "."))
	if m, ok := months[n]; ok {
		return m, true
	}
	if len(n) < 3 {
		return 0, false
	}
	for full, m := range months {
		if strings.HasPrefix(full, n) {
			return m, true
		}
	}
	return 0, false
}

// genericLayouts are tried as a last resort, in order. None of them is
// numerically ambiguous, so the fallback cannot contradict the policy.
var genericLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
}

// genericParse is rule 6: a best-effort calendar parse. time.Parse
// rejects out-of-range days itself, and finish revalidates regardless.
func genericParse(raw, s string) Outcome {
	for _, layout := range genericLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return finish(raw, t.Year(), int(t.Month()), t.Day())
	}
	return Unparseable(raw)
}

// atoi converts a digits-only regex capture; captures never overflow int.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
