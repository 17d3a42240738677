// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import "github.com/pdiddy/deadline-engine/pkg/types"

// dedupeContextPrefix is how much of the long context participates in
// the consolidation key (R4.2). The raw text alone is not enough: the
// same date string can legitimately appear in two different clauses.
const dedupeContextPrefix = 40

// Deduplicate consolidates near-duplicate candidates produced by
// overlapping pattern passes into one candidate per logical mention.
// The key is (raw text, prefix of the long context); the first
// candidate in scan order wins and the relative order of survivors is
// preserved. Applying it twice changes nothing (R4.1, R4.3).
func Deduplicate(candidates []types.DateCandidate) []types.DateCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]types.DateCandidate, 0, len(candidates))
	for _, c := range candidates {
		prefix := c.LongContext
		if len(prefix) > dedupeContextPrefix {
			prefix = prefix[:dedupeContextPrefix]
		}
		key := c.RawText + "\x00" + prefix
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
