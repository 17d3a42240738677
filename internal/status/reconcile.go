// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package status

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

// Change records one deadline whose derived status differs from the
// stored one.
type Change struct {
	ID     string       `json:"id" yaml:"id"`
	Status types.Status `json:"status" yaml:"status"`
}

// Reconcile is the batch driver: it derives every record's status for
// the given day through the same Derive function the lazy path uses and
// returns only the records whose status changed (R2.1, R2.2). A record
// that violates the threshold invariant is skipped and reported to w;
// one bad record never aborts the rest of the pass (R2.3).
func Reconcile(records []types.Deadline, today time.Time, w io.Writer) []Change {
	var changes []Change
	for _, rec := range records {
		derived, err := Derive(rec.DueDate, rec.ThresholdDays, today, rec.Completed)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", rec.ID, err)
			continue
		}
		if derived == rec.Status {
			continue
		}
		changes = append(changes, Change{ID: rec.ID, Status: derived})
	}
	return changes
}
