package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	internalconfig "github.com/metaygn/aletheia-hooks/internal/config"
)

var (
	globalFlag bool
	forceFlag  bool
	diffFlag   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with every default spelled out.

By default the project file .aletheia/config.toml is written. With --global
the user file ~/.claude/aletheia/config.toml is written instead.

Examples:
  aletheia-hooks init             # Project config
  aletheia-hooks init --global    # User config
  aletheia-hooks init --diff      # Show how the existing file differs from defaults
  aletheia-hooks init --force     # Overwrite an existing file`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&globalFlag, "global", "g", false, "Write the global config")
	initCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing file")
	initCmd.Flags().BoolVar(&diffFlag, "diff", false, "Print a diff against the existing file and write nothing")
}

func runInit(cmd *cobra.Command, _ []string) error {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create config loader")
	}

	writer := internalconfig.NewWriter(loader)

	path := writer.ProjectConfigPath()
	if globalFlag {
		path = writer.GlobalConfigPath()
	}

	cfg := internalconfig.DefaultConfig()
	out := cmd.OutOrStdout()

	if diffFlag {
		return printConfigDiff(cmd, path)
	}

	if err := writer.WriteFile(path, cfg, forceFlag); err != nil {
		if errors.Is(err, internalconfig.ErrConfigExists) {
			return errors.WithHint(err, "use --force to overwrite or --diff to compare")
		}

		return err
	}

	fmt.Fprintf(out, "Configuration written to %s\n", path)

	return nil
}

func printConfigDiff(cmd *cobra.Command, path string) error {
	want, err := internalconfig.Render(internalconfig.DefaultConfig())
	if err != nil {
		return err
	}

	have, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "reading %s", path)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: path,
		ToFile:   "defaults",
		Context:  3,
	})
	if err != nil {
		return errors.Wrap(err, "computing diff")
	}

	if diff == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s matches the defaults\n", path)

		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), diff)

	return nil
}
