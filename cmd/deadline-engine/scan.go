// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deadline-engine/internal/dateparse"
	"github.com/pdiddy/deadline-engine/internal/scan"
	"github.com/pdiddy/deadline-engine/internal/secrets"
	"github.com/pdiddy/deadline-engine/internal/textfetch"
	"github.com/pdiddy/deadline-engine/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Find date candidates in extracted contract text",
	Long: `Scan runs the date pattern passes over plain text from a file, stdin,
or the upstream extraction service (--url), pairs every match with its
surrounding context, and consolidates duplicate sightings of the same
date in the same passage.

With --normalize each surviving candidate is also resolved to a
canonical calendar date. Candidates that cannot be resolved are marked
unparseable and still listed; nothing the scanner found is dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

// scanEntry is one reported candidate, optionally with its normalized
// form attached.
type scanEntry struct {
	types.DateCandidate `yaml:",inline"`
	Normalized          *dateparse.Outcome `json:"normalized,omitempty" yaml:"normalized,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	text, err := scanInput(cmd, args)
	if err != nil {
		return err
	}

	shortLen, _ := cmd.Flags().GetInt("short-context")
	longLen, _ := cmd.Flags().GetInt("long-context")
	cfg := types.ScanConfig{ShortContextLen: shortLen, LongContextLen: longLen}

	candidates := scan.Deduplicate(scan.Candidates(text, cfg))

	normalize, _ := cmd.Flags().GetBool("normalize")
	entries := make([]scanEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = scanEntry{DateCandidate: c}
		if normalize {
			out := scanPolicy(cmd).Normalize(c.RawText)
			entries[i].Normalized = &out
		}
	}

	return formatScanOutput(cmd, entries)
}

// scanInput resolves the text source: --url wins, then a file argument,
// then stdin.
func scanInput(cmd *cobra.Command, args []string) (string, error) {
	url, _ := cmd.Flags().GetString("url")
	if url != "" {
		fetcher := textfetch.NewFetcher(types.FetchConfig{
			Token: secrets.Token(loadedSecrets),
		})
		return fetcher.Text(context.Background(), url)
	}

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// scanPolicy builds the disambiguation policy from the --month-first
// flag, falling back to the normalize.month_first config key.
func scanPolicy(cmd *cobra.Command) dateparse.Policy {
	monthFirst, _ := cmd.Flags().GetBool("month-first")
	if !cmd.Flags().Changed("month-first") {
		monthFirst = viper.GetBool("normalize.month_first")
	}
	return dateparse.Policy{MonthFirst: monthFirst}
}

func formatScanOutput(cmd *cobra.Command, entries []scanEntry) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")

	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case yamlOutput:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No date candidates found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-7s  %-10s  %-20s  %-12s  %s\n",
		"Offset", "Kind", "Raw", "Date", "Context")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, e := range entries {
		date := ""
		if e.Normalized != nil {
			if e.Normalized.Parsed {
				date = e.Normalized.Date.String()
			} else {
				date = "unparseable"
			}
		}
		ctx := e.ShortContext
		if len(ctx) > 45 {
			ctx = ctx[:42] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-7d  %-10s  %-20s  %-12s  %s\n",
			e.SourceOffset, e.Kind, e.RawText, date, ctx)
	}

	fmt.Fprintf(os.Stdout, "\n%d candidates\n", len(entries))
	return nil
}

func init() {
	scanCmd.Flags().String("url", "", "fetch text from the extraction service instead of a file")
	scanCmd.Flags().Int("short-context", scan.DefaultShortContextLen, "short context window size in characters")
	scanCmd.Flags().Int("long-context", scan.DefaultLongContextLen, "long context window size in characters")
	scanCmd.Flags().Bool("normalize", false, "resolve each candidate to a canonical date")
	scanCmd.Flags().Bool("month-first", false, "resolve ambiguous numeric dates month-first")
	scanCmd.Flags().Bool("json", false, "output candidates as JSON")
	scanCmd.Flags().Bool("yaml", false, "output candidates as YAML")

	rootCmd.AddCommand(scanCmd)
}
