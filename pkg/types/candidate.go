// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PatternKind identifies which scanner pattern class produced a candidate.
// Per prd101-scanning R2.1.
type PatternKind string

const (
	// PatternYearFirst matches ISO-style year-first numeric dates
	// (2024-03-01, 2024/3/1).
	PatternYearFirst PatternKind = "year_first"

	// PatternNumeric matches slash- or dash-separated numeric dates with
	// no reliable day/month order (01/04/2024, 13-02-2024).
	PatternNumeric PatternKind = "numeric"

	// PatternMonthDay matches textual "Month day, year" dates
	// (March 4, 2024).
	PatternMonthDay PatternKind = "month_day"

	// PatternDayMonth matches textual "day Month year" dates
	// (4 March 2024).
	PatternDayMonth PatternKind = "day_month"
)

// DateCandidate is a transient, unconfirmed date-like span found during
// scanning, paired with the text surrounding it. Candidates are never
// persisted; a confirmed candidate is normalized and promoted into a
// Deadline, a declined one is discarded.
// Per prd101-scanning R1.3.
type DateCandidate struct {
	// RawText is the matched span, verbatim from the source text.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// SourceOffset is the byte offset of RawText in the source text.
	SourceOffset int `json:"source_offset" yaml:"source_offset"`

	// ShortContext is a compact window of surrounding text (~80 chars),
	// bounded by sentence delimiters.
	ShortContext string `json:"short_context" yaml:"short_context"`

	// LongContext is a wider window (~150 chars) suitable as a suggested
	// deadline description.
	LongContext string `json:"long_context" yaml:"long_context"`

	// Kind records which pattern class matched the span.
	Kind PatternKind `json:"kind" yaml:"kind"`
}
