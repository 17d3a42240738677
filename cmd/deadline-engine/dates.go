// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deadline-engine/internal/dateparse"
	"github.com/pdiddy/deadline-engine/internal/store"
	"github.com/pdiddy/deadline-engine/pkg/types"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Manage tracked deadlines (add, list, update, complete)",
	Long: `Dates manages the tracked deadline records in the local store. Use
subcommands to add a deadline, list what is due, edit one, mark it
complete, reopen it, or delete it.`,
}

// --- add subcommand ---

var datesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a new deadline",
	Long: `Add creates a deadline record. The due date is given in any form the
normalizer accepts (2024-03-01, 01/04/2024, "March 1, 2024"); an input
that cannot be resolved to a real calendar date is rejected.

With --document the new record is linked back to the contract document
it was extracted from.`,
	RunE: runDatesAdd,
}

func runDatesAdd(cmd *cobra.Command, args []string) error {
	due, err := parseDueDate(cmd)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	details, _ := cmd.Flags().GetString("details")
	threshold, _ := cmd.Flags().GetInt("threshold")
	assignedTo, _ := cmd.Flags().GetString("assigned-to")
	groupID, _ := cmd.Flags().GetString("group")
	docID, _ := cmd.Flags().GetString("document")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rec := &types.Deadline{
		Title:         title,
		Details:       details,
		DueDate:       due,
		ThresholdDays: threshold,
		AssignedTo:    assignedTo,
		GroupID:       groupID,
	}

	if docID != "" {
		err = s.CreateLinked(context.Background(), docID, []*types.Deadline{rec})
	} else {
		err = s.CreateDeadline(context.Background(), rec)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created %s (%s, due %s)\n", rec.ID, rec.Status, rec.DueDate)
	return nil
}

// --- list subcommand ---

var datesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deadlines in scope, soonest first",
	Long: `List shows the deadlines assigned to --owner, or every deadline in
--group when --admin is set. Statuses are refreshed for today before
display: overdue records print red, approaching ones yellow.`,
	RunE: runDatesList,
}

func runDatesList(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")
	groupID, _ := cmd.Flags().GetString("group")
	admin, _ := cmd.Flags().GetBool("admin")

	if admin && groupID == "" {
		return fmt.Errorf("--admin requires --group")
	}
	if !admin && owner == "" {
		return fmt.Errorf("--owner required (or --admin with --group)")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.ListDeadlines(context.Background(), store.Scope{
		Owner:   owner,
		GroupID: groupID,
		Admin:   admin,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(records, jsonOutput)
}

func formatListOutput(records []types.Deadline, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No deadlines found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-26s  %-30s  %-12s  %-10s  %s\n",
		"ID", "Title", "Due", "Status", "Assigned")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))

	for _, rec := range records {
		title := rec.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-26s  %-30s  %-12s  %-10s  %s\n",
			rec.ID, title, rec.DueDate, colorStatus(rec.Status), rec.AssignedTo)
	}

	fmt.Fprintf(os.Stdout, "\n%d deadlines\n", len(records))
	return nil
}

// colorStatus renders a status for terminal display: overdue red,
// approaching yellow, completed green.
func colorStatus(s types.Status) string {
	switch s {
	case types.StatusOverdue:
		return color.New(color.FgRed).Sprint(s)
	case types.StatusDeadline:
		return color.New(color.FgYellow).Sprint(s)
	case types.StatusCompleted:
		return color.New(color.FgGreen).Sprint(s)
	default:
		return string(s)
	}
}

// --- update subcommand ---

var datesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a deadline's fields",
	Long: `Update changes the given fields of a deadline and re-derives its
status. Fields not given keep their stored values. Editing a completed
deadline does not reopen it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatesUpdate,
}

func runDatesUpdate(cmd *cobra.Command, args []string) error {
	var upd store.DeadlineUpdate

	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		upd.Title = &v
	}
	if cmd.Flags().Changed("details") {
		v, _ := cmd.Flags().GetString("details")
		upd.Details = &v
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDueDate(cmd)
		if err != nil {
			return err
		}
		upd.DueDate = &due
	}
	if cmd.Flags().Changed("threshold") {
		v, _ := cmd.Flags().GetInt("threshold")
		upd.ThresholdDays = &v
	}
	if cmd.Flags().Changed("assigned-to") {
		v, _ := cmd.Flags().GetString("assigned-to")
		upd.AssignedTo = &v
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.UpdateDeadline(context.Background(), args[0], upd)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %s (%s, due %s)\n", rec.ID, rec.Status, rec.DueDate)
	return nil
}

// --- complete / reopen / delete subcommands ---

var datesCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a deadline as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			if err := s.Complete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Completed %s\n", args[0])
			return nil
		})
	},
}

var datesReopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Reopen a completed deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			if err := s.Reopen(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Reopened %s\n", args[0])
			return nil
		})
	},
}

var datesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a deadline and its document links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			if err := s.DeleteDeadline(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

// --- shared helpers ---

func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// parseDueDate normalizes the --due flag under the configured policy.
func parseDueDate(cmd *cobra.Command) (types.CanonicalDate, error) {
	raw, _ := cmd.Flags().GetString("due")
	if raw == "" {
		return types.CanonicalDate{}, fmt.Errorf("--due is required")
	}

	policy := dateparse.Policy{MonthFirst: viper.GetBool("normalize.month_first")}
	out := policy.Normalize(raw)
	if !out.Parsed {
		return types.CanonicalDate{}, fmt.Errorf("cannot resolve %q to a calendar date", raw)
	}
	return out.Date, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	datesCmd.PersistentFlags().String("data-dir", "", "data directory for the deadline store (default: data)")

	// Add flags.
	datesAddCmd.Flags().String("title", "", "deadline title")
	datesAddCmd.Flags().String("details", "", "free-form details")
	datesAddCmd.Flags().String("due", "", "due date in any accepted form")
	datesAddCmd.Flags().Int("threshold", 7, "days before the due date the deadline becomes approaching")
	datesAddCmd.Flags().String("assigned-to", "", "user the deadline is assigned to")
	datesAddCmd.Flags().String("group", "", "owning group")
	datesAddCmd.Flags().String("document", "", "document ID to link the deadline to")

	// List flags.
	datesListCmd.Flags().String("owner", "", "list deadlines assigned to this user")
	datesListCmd.Flags().String("group", "", "group scope for --admin listings")
	datesListCmd.Flags().Bool("admin", false, "list every deadline in --group")
	datesListCmd.Flags().Bool("json", false, "output records as JSON")

	// Update flags.
	datesUpdateCmd.Flags().String("title", "", "new title")
	datesUpdateCmd.Flags().String("details", "", "new details")
	datesUpdateCmd.Flags().String("due", "", "new due date in any accepted form")
	datesUpdateCmd.Flags().Int("threshold", 0, "new threshold in days")
	datesUpdateCmd.Flags().String("assigned-to", "", "new assignee")

	// Wire subcommands.
	datesCmd.AddCommand(datesAddCmd)
	datesCmd.AddCommand(datesListCmd)
	datesCmd.AddCommand(datesUpdateCmd)
	datesCmd.AddCommand(datesCompleteCmd)
	datesCmd.AddCommand(datesReopenCmd)
	datesCmd.AddCommand(datesDeleteCmd)

	rootCmd.AddCommand(datesCmd)
}
