// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan finds calendar-date mentions in plain contract text.
// Implements: prd101-scanning (R1, R2);
//
//	docs/ARCHITECTURE § Candidate Scanning.
package scan

import (
	"regexp"
	"sort"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

// monthNames matches English month names and their common abbreviations.
// Full names come first so the alternation prefers them.
const monthNames = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*`

// datePatterns are the independent pattern passes (R2.1). Each pass scans
// the whole text on its own; no pass suppresses another, so overlapping
// matches from competing classes all surface and are left to Deduplicate.
var datePatterns = []struct {
	kind types.PatternKind
	re   *regexp.Regexp
}{
	// ISO: YYYY-MM-DD
	{types.PatternYearFirst, regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},

	// YYYY/M/D
	{types.PatternYearFirst, regexp.MustCompile(`\b\d{4}/\d{1,2}/\d{1,2}\b`)},

	// D/M/YYYY or M/D/YYYY, slash or dash, order unknown
	{types.PatternNumeric, regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}[/\-]\d{4}\b`)},

	// Month D, YYYY
	{types.PatternMonthDay, regexp.MustCompile(`(?i)\b` + monthNames + `\s+\d{1,2},?\s+\d{4}\b`)},

	// D Month YYYY
	{types.PatternDayMonth, regexp.MustCompile(`(?i)\b\d{1,2}\s+` + monthNames + `\s+\d{4}\b`)},
}

// Candidates runs every pattern pass over text and returns the matches
// in left-to-right order of source offset, each paired with its context
// windows. Zero matches yields an empty result, not an error; arbitrary
// or adversarial input never panics (R1.1, R1.2). Each pass is a single
// linear scan, so total cost is O(passes × len(text)).
func Candidates(text string, cfg types.ScanConfig) []types.DateCandidate {
	if text == "" {
		return nil
	}

	shortLen := cfg.ShortContextLen
	if shortLen <= 0 {
		shortLen = DefaultShortContextLen
	}
	longLen := cfg.LongContextLen
	if longLen <= 0 {
		longLen = DefaultLongContextLen
	}

	var candidates []types.DateCandidate
	for _, p := range datePatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			candidates = append(candidates, types.DateCandidate{
				RawText:      text[start:end],
				SourceOffset: start,
				ShortContext: Context(text, start, shortLen),
				LongContext:  Context(text, start, longLen),
				Kind:         p.kind,
			})
		}
	}

	// Stable sort keeps pass order for candidates at the same offset.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SourceOffset < candidates[j].SourceOffset
	})

	return candidates
}
