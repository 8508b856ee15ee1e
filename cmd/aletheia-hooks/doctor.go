package main

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/metaygn/aletheia-hooks/internal/color"
	internalconfig "github.com/metaygn/aletheia-hooks/internal/config"
	"github.com/metaygn/aletheia-hooks/internal/crashdump"
	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/internal/doctor"
	configchecker "github.com/metaygn/aletheia-hooks/internal/doctor/checkers/config"
	daemonchecker "github.com/metaygn/aletheia-hooks/internal/doctor/checkers/daemon"
	"github.com/metaygn/aletheia-hooks/internal/doctor/checkers/state"
	"github.com/metaygn/aletheia-hooks/internal/doctor/fixers"
	"github.com/metaygn/aletheia-hooks/internal/doctor/reporters"
	"github.com/metaygn/aletheia-hooks/internal/paths"
	"github.com/metaygn/aletheia-hooks/pkg/config"
	"github.com/metaygn/aletheia-hooks/pkg/logger"
)

var (
	verboseFlag      bool
	fixFlag          bool
	categoryFlag     []string
	doctorOutputFlag string
	noColorFlag      bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration, daemon and state directory",
	Long: `Diagnose aletheia-hooks setup.

Checks:
- Global, project and effective configuration
- Daemon port file and health endpoint
- State directory, log file, event journal and crash dumps

Examples:
  aletheia-hooks doctor                    # Run all checks
  aletheia-hooks doctor --verbose          # Include details
  aletheia-hooks doctor --fix              # Apply available fixes
  aletheia-hooks doctor --category daemon  # Check one category
  aletheia-hooks doctor --output json      # Machine-readable results
  aletheia-hooks doctor --no-color         # Plain table on a terminal`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Include check details")
	doctorCmd.Flags().BoolVar(&fixFlag, "fix", false, "Apply available fixes without prompting")
	doctorCmd.Flags().StringSliceVar(
		&categoryFlag,
		"category",
		[]string{},
		"Filter checks by category (config, daemon, state)",
	)
	doctorCmd.Flags().StringVarP(&doctorOutputFlag, "output", "o", "table", "Output format (table, json)")
	doctorCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (also NO_COLOR)")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	categories, err := parseCategories(categoryFlag)
	if err != nil {
		return err
	}

	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create config loader")
	}

	// the effective config checker reports load errors
	cfg, loadErr := loader.Load(buildFlagsMap())
	if loadErr != nil {
		cfg = internalconfig.DefaultConfig()
	}

	log := newLogger(cfg)
	defer closeLogger(log)

	log.Info("starting doctor command",
		"verbose", verboseFlag,
		"fix", fixFlag,
		"categories", categoryFlag,
	)

	out := cmd.OutOrStdout()
	hints := out

	var reporter doctor.Reporter

	switch doctorOutputFlag {
	case "table":
		theme := color.NewTheme(color.Enabled(os.Stdout, noColorFlag))
		reporter = reporters.NewTableReporter(out, terminalWidth(), theme)
	case "json":
		reporter = reporters.NewJSONReporter(out)
		hints = io.Discard
	default:
		return errors.Newf("unknown output format %q", doctorOutputFlag)
	}

	registry := buildDoctorRegistry(loader, cfg, log)

	return doctor.NewRunner(registry, reporter, hints, log).Run(context.Background(), doctor.RunOptions{
		Verbose:    verboseFlag,
		Fix:        fixFlag,
		Categories: categories,
	})
}

func buildDoctorRegistry(loader *internalconfig.KoanfLoader, cfg *config.Config, log logger.Logger) *doctor.Registry {
	registry := doctor.NewRegistry()

	registry.RegisterChecker(configchecker.NewGlobalChecker(loader))
	registry.RegisterChecker(configchecker.NewProjectChecker(loader))
	registry.RegisterChecker(configchecker.NewEffectiveChecker(loader))

	daemonCfg := cfg.GetDaemon()

	portFile := paths.ExpandPathSilent(daemonCfg.GetPortFile())
	if portFile == "" {
		portFile = paths.PortFile()
	}

	registry.RegisterChecker(daemonchecker.NewPortFileChecker(portFile))

	var prober daemonchecker.HealthProber
	if daemonCfg.IsEnabled() {
		prober = daemon.NewClientFromConfig(daemonCfg, log)
	}

	registry.RegisterChecker(daemonchecker.NewHealthChecker(prober))

	logPath := paths.ExpandPathSilent(cfg.GetLog().GetFile())
	if logPath == "" {
		logPath = paths.LogFile()
	}

	journalCfg := cfg.GetJournal()
	journalPath := paths.ExpandPathSilent(journalCfg.GetFile())

	if journalPath == "" {
		journalPath = paths.JournalFile()
	}

	registry.RegisterChecker(state.NewDirChecker(paths.AppDir()))
	registry.RegisterChecker(state.NewLogChecker(logPath))
	registry.RegisterChecker(state.NewJournalChecker(journalPath, journalCfg.GetMaxSizeMB(), journalCfg.IsEnabled()))
	registry.RegisterChecker(state.NewCrashChecker(crashdump.NewStore("")))

	registry.RegisterFixer(fixers.NewConfigFixer(internalconfig.NewWriter(loader)))

	permPaths := []string{loader.GlobalConfigPath()}
	if project := loader.FindProjectConfigPath(); project != "" {
		permPaths = append(permPaths, project)
	}

	registry.RegisterFixer(fixers.NewPermissionsFixer(permPaths...))

	return registry
}

func parseCategories(names []string) ([]doctor.Category, error) {
	valid := make([]string, 0, len(doctor.Categories))
	for _, c := range doctor.Categories {
		valid = append(valid, string(c))
	}

	categories := make([]doctor.Category, 0, len(names))

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		if !slices.Contains(valid, name) {
			err := errors.Newf("unknown category %q", name)
			if s := suggest(name, valid); s != "" {
				return nil, errors.WithHintf(err, "did you mean %s?", s)
			}

			return nil, errors.WithHintf(err, "valid categories: %s", strings.Join(valid, ", "))
		}

		categories = append(categories, doctor.Category(name))
	}

	return categories, nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}

	return width
}
