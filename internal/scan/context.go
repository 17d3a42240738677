// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"strings"
	"unicode/utf8"
)

// Default context window budgets, in bytes of source text before
// whitespace collapsing (R3.1, R3.2).
const (
	DefaultShortContextLen = 80
	DefaultLongContextLen  = 150
)

// Context returns a trimmed, whitespace-collapsed window of text around
// offset, bounded by the nearest sentence delimiter on each side. The
// window never crosses a delimiter; when none is found within the
// budget, it is clipped at the budget instead. Identical (text, offset,
// budget) always yields identical output (R3.3).
func Context(text string, offset, budget int) string {
	if text == "" || budget <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	// Expand left up to half the budget, then give any unused left
	// budget to the right side.
	half := budget / 2
	start := offset
	for start > 0 && offset-start < half && !sentenceDelimiter(text[start-1]) {
		start--
	}

	rightBudget := budget - (offset - start)
	end := offset
	for end < len(text) && end-offset < rightBudget && !sentenceDelimiter(text[end]) {
		end++
	}

	// Never cut a multi-byte rune at a budget boundary.
	for start < offset && !utf8.RuneStart(text[start]) {
		start++
	}
	for end > offset && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}

	return strings.Join(strings.Fields(text[start:end]), " ")
}

// sentenceDelimiter reports whether c ends a sentence-like unit.
func sentenceDelimiter(c byte) bool {
	switch c {
	case '.', '!', '?', ';', '\n', '\r':
		return true
	}
	return false
}
