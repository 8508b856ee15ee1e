package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/metaygn/aletheia-hooks/internal/journal"
)

var (
	journalLines int
	journalJSON  bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the event journal",
	Long: `Inspect the JSONL journal of handled hook events.

Each line records the event, the tool, the decision and whether it came
from the daemon or the local fallback.`,
}

var journalTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show the most recent events",
	Long: `Show the most recent events.

Examples:
  aletheia-hooks journal tail
  aletheia-hooks journal tail -n 50
  aletheia-hooks journal tail --json`,
	Args: cobra.NoArgs,
	RunE: runJournalTail,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTailCmd)

	journalTailCmd.Flags().IntVarP(&journalLines, "lines", "n", 20, "Number of events to show")
	journalTailCmd.Flags().BoolVar(&journalJSON, "json", false, "Print raw JSON lines")
}

func runJournalTail(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j := journal.New(cfg.GetJournal())

	entries, err := j.Tail(journalLines)
	if err != nil {
		return errors.Wrap(err, "reading journal")
	}

	out := cmd.OutOrStdout()

	if len(entries) == 0 {
		fmt.Fprintf(out, "No events recorded in %s\n", j.Path())

		return nil
	}

	if journalJSON {
		enc := json.NewEncoder(out)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return errors.Wrap(err, "encoding entry")
			}
		}

		return nil
	}

	t := newTable(out)
	t.Header([]string{"When", "Event", "Tool", "Decision", "Source", "Took"})

	for _, e := range entries {
		decision := string(e.Decision)
		if decision == "" {
			decision = "-"
		}

		row := []string{
			humanize.Time(e.Timestamp),
			string(e.Event),
			e.Tool,
			decision,
			string(e.Source),
			strconv.FormatInt(e.ElapsedMS, 10) + "ms",
		}

		if err := t.Append(row); err != nil {
			return errors.Wrap(err, "building table")
		}
	}

	return errors.Wrap(t.Render(), "rendering table")
}
