package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/metaygn/aletheia-hooks/internal/crashdump"
)

const durationDisplayUnits = 2

var (
	dryRun   bool
	keepFlag int
)

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Manage crash dumps",
	Long: `Manage crash dumps written when a hook recovers from a panic.

Subcommands:
  list   List crash dumps
  view   View crash dump details
  clean  Remove old crash dumps`,
}

var crashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crash dumps",
	Args:  cobra.NoArgs,
	RunE:  runCrashList,
}

var crashViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View crash dump details",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrashView,
}

var crashCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old crash dumps",
	Long: `Remove all but the newest crash dumps.

Examples:
  aletheia-hooks crash clean            # Keep the newest 10
  aletheia-hooks crash clean --keep 0   # Remove all
  aletheia-hooks crash clean --dry-run  # Show what would be removed`,
	Args: cobra.NoArgs,
	RunE: runCrashClean,
}

func init() {
	rootCmd.AddCommand(crashCmd)
	crashCmd.AddCommand(crashListCmd, crashViewCmd, crashCleanCmd)

	crashCleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without deleting")
	crashCleanCmd.Flags().IntVar(&keepFlag, "keep", crashdump.DefaultMaxDumps, "Number of dumps to keep")
}

func runCrashList(cmd *cobra.Command, _ []string) error {
	store := crashdump.NewStore("")
	out := cmd.OutOrStdout()

	summaries, err := store.List()
	if err != nil {
		return errors.Wrap(err, "failed to list crash dumps")
	}

	if len(summaries) == 0 {
		fmt.Fprintln(out, "No crash dumps found.")
		fmt.Fprintf(out, "Directory: %s\n", store.Dir())

		return nil
	}

	t := newTable(out)
	t.Header([]string{"ID", "Age", "Size", "Panic"})

	now := time.Now()

	for _, s := range summaries {
		age := durafmt.Parse(now.Sub(s.Timestamp)).LimitFirstN(durationDisplayUnits).String()

		row := []string{s.ID, age, humanize.IBytes(uint64(s.Size)), s.PanicValue}
		if err := t.Append(row); err != nil {
			return errors.Wrap(err, "building table")
		}
	}

	return errors.Wrap(t.Render(), "rendering table")
}

func runCrashView(cmd *cobra.Command, args []string) error {
	info, err := crashdump.NewStore("").Get(args[0])
	if err != nil {
		return errors.Wrapf(err, "crash dump %s", args[0])
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(info), "encoding crash dump")
}

func runCrashClean(cmd *cobra.Command, _ []string) error {
	store := crashdump.NewStore("")
	out := cmd.OutOrStdout()

	if keepFlag < 0 {
		return errors.Newf("--keep must not be negative, got %d", keepFlag)
	}

	if dryRun {
		summaries, err := store.List()
		if err != nil {
			return errors.Wrap(err, "failed to list crash dumps")
		}

		for i := keepFlag; i < len(summaries); i++ {
			fmt.Fprintf(out, "would remove %s\n", summaries[i].ID)
		}

		return nil
	}

	removed, err := store.Prune(keepFlag)
	if err != nil {
		return errors.Wrap(err, "failed to prune crash dumps")
	}

	fmt.Fprintf(out, "Removed %d crash dump(s)\n", removed)

	return nil
}
