// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package status derives deadline lifecycle states as a pure function
// of time. Implements: prd103-lifecycle (R1-R3);
//
//	docs/ARCHITECTURE § Status Derivation.
package status

import (
	"fmt"
	"time"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

// Derive computes the lifecycle status for one deadline. The completed
// flag is checked first and short-circuits all date logic: completed is
// terminal, and nothing here ever clears it — only an explicit caller
// reopen does (R1.2). Otherwise both dates are normalized to midnight
// and compared in whole calendar days:
//
//	daysUntilDue < 0              → overdue
//	0 ≤ daysUntilDue ≤ threshold  → deadline
//	daysUntilDue > threshold      → pending
//
// Derive has no side effects and no hidden inputs; identical arguments
// always produce the identical status (R1.1). A non-positive threshold
// is an invariant the caller must enforce at the record boundary;
// Derive rejects it before the state machine runs (R1.3).
func Derive(due types.CanonicalDate, thresholdDays int, today time.Time, completed bool) (types.Status, error) {
	if completed {
		return types.StatusCompleted, nil
	}
	if thresholdDays <= 0 {
		return "", fmt.Errorf("threshold days must be positive, got %d", thresholdDays)
	}

	daysUntilDue := due.DaysUntil(today)
	switch {
	case daysUntilDue < 0:
		return types.StatusOverdue, nil
	case daysUntilDue <= thresholdDays:
		return types.StatusDeadline, nil
	default:
		return types.StatusPending, nil
	}
}
