// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Refresh every stored deadline status in one pass",
	Long: `Reconcile recomputes the status of every stored deadline against today
and writes back the ones that changed. Records that cannot be derived
are reported and skipped; the pass continues. Only actual transitions
are printed.`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	changes, err := s.ReconcileAll(context.Background(), time.Now(), os.Stderr)
	if err != nil {
		return err
	}

	if len(changes) == 0 {
		fmt.Println("All statuses current.")
		return nil
	}

	for _, ch := range changes {
		fmt.Fprintf(os.Stdout, "%s  %s\n", ch.ID, colorStatus(ch.Status))
	}
	fmt.Fprintf(os.Stdout, "\n%d status change(s)\n", len(changes))
	return nil
}

func init() {
	reconcileCmd.Flags().String("data-dir", "", "data directory for the deadline store (default: data)")

	rootCmd.AddCommand(reconcileCmd)
}
