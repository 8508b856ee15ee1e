// Package main provides the CLI entry point for aletheia-hooks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/metaygn/aletheia-hooks/internal/config"
	"github.com/metaygn/aletheia-hooks/internal/crashdump"
	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/internal/dispatcher"
	"github.com/metaygn/aletheia-hooks/internal/hookresponse"
	"github.com/metaygn/aletheia-hooks/internal/input"
	"github.com/metaygn/aletheia-hooks/internal/journal"
	"github.com/metaygn/aletheia-hooks/internal/paths"
	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/pkg/config"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
	"github.com/metaygn/aletheia-hooks/pkg/logger"
)

const (
	// ExitCodeOK is used on every hook path. Decisions travel on stdout.
	ExitCodeOK = 0

	// ExitCodeError is used when a subcommand fails.
	ExitCodeError = 1

	// ExitCodeCrash indicates a panic outside the hook path.
	ExitCodeCrash = 3
)

var (
	hookType  string
	debugMode bool
	traceMode bool

	timeoutFlag   string
	portFileFlag  string
	noDaemonFlag  bool
	logFileFlag   string
	noJournalFlag bool
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n", r)

			exitCode = ExitCodeCrash
			if hookType != "" {
				exitCode = ExitCodeOK
			}
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}

		return ExitCodeError
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "aletheia-hooks",
	Short: "Lifecycle hooks for a tool-using coding agent",
	Long: `Lifecycle hooks for a tool-using coding agent.

With --hook-type, reads one event document from stdin, consults the local
policy daemon when it is running, falls back to the built-in policy when it
is not, and writes at most one JSON decision line to stdout.

Exit status is 0 for every known hook type, including unusable input and
internal failures. An unknown --hook-type is a usage error and exits 1.

Examples:
  echo '{"hook_event_name":"PreToolUse",...}' | aletheia-hooks -T PreToolUse
  aletheia-hooks doctor
  aletheia-hooks patterns`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE:              run,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.Flags().StringVarP(
		&hookType,
		"hook-type",
		"T",
		"",
		"Hook event type (SessionStart, UserPromptSubmit, PreToolUse, PostToolUse, "+
			"PostToolUseFailure, Stop, PreCompact, SessionEnd)",
	)

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringVar(
		&timeoutFlag,
		"timeout",
		"",
		"Daemon request timeout (e.g. 350ms)",
	)
	rootCmd.PersistentFlags().StringVar(
		&portFileFlag,
		"port-file",
		"",
		"Path to the daemon port file (default: ~/.claude/aletheia/daemon.port)",
	)
	rootCmd.PersistentFlags().BoolVar(&noDaemonFlag, "no-daemon", false, "Never consult the daemon")
	rootCmd.PersistentFlags().StringVar(
		&logFileFlag,
		"log-file",
		"",
		"Path to the log file (default: ~/.claude/aletheia/hooks.log)",
	)
	rootCmd.PersistentFlags().BoolVar(&noJournalFlag, "no-journal", false, "Do not record events")
}

func run(cmd *cobra.Command, _ []string) error {
	if hookType == "" {
		return cmd.Help()
	}

	event, err := hook.ParseEvent(hookType)
	if err != nil {
		return unknownEventError(hookType)
	}

	// stdin is bound before anything else can touch it
	src := input.FromStdin()

	cfg, cfgErr := loadConfig()

	log := newLogger(cfg)
	defer closeLogger(log)

	if cfgErr != nil {
		log.Error("configuration not usable, using defaults", "error", cfgErr.Error())
	}

	log.Info("hook invoked",
		"event", event,
		"interactive", src.Interactive(),
		"daemon", cfg.GetDaemon().IsEnabled(),
	)

	disp := newDispatcher(cfg, log)
	out := disp.Dispatch(context.Background(), event, src)

	if err := hookresponse.Write(os.Stdout, out); err != nil {
		log.Error("failed to write hook output", "error", err.Error())
	}

	return nil
}

func newDispatcher(cfg *config.Config, log logger.Logger) *dispatcher.Dispatcher {
	engine, err := policy.NewFromConfig(cfg.GetPolicy())
	if err != nil {
		log.Error("policy config not usable, using built-in rules", "error", err.Error())

		engine = policy.New()
	}

	opts := []dispatcher.Option{
		dispatcher.WithLogger(log),
		dispatcher.WithStackDetection(cfg.GetSessionStart().IsDetectStackEnabled()),
		dispatcher.WithCrashDumps(crashdump.NewStore(""), version),
	}

	if cfg.GetDaemon().IsEnabled() {
		opts = append(opts, dispatcher.WithDaemon(daemon.NewClientFromConfig(cfg.GetDaemon(), log)))
	}

	if cfg.GetJournal().IsEnabled() {
		opts = append(opts, dispatcher.WithJournal(journal.New(cfg.GetJournal(), journal.WithLogger(log))))
	}

	return dispatcher.New(engine, opts...)
}

// loadConfig never returns nil: on error it returns the defaults.
func loadConfig() (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return internalconfig.DefaultConfig(), errors.Wrap(err, "failed to create config loader")
	}

	cfg, err := loader.Load(buildFlagsMap())
	if err != nil {
		return internalconfig.DefaultConfig(), errors.Wrap(err, "failed to load config")
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) logger.Logger {
	path := paths.ExpandPathSilent(cfg.GetLog().GetFile())
	if logFileFlag != "" {
		path = paths.ExpandPathSilent(logFileFlag)
	}

	if path == "" {
		path = paths.LogFile()
	}

	log, err := logger.NewFileLogger(path, debugMode, traceMode)
	if err != nil {
		return logger.NewNoOpLogger()
	}

	return log
}

func closeLogger(log logger.Logger) {
	if c, ok := log.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

// buildFlagsMap converts CLI flags to a map for the config provider.
func buildFlagsMap() map[string]any {
	return map[string]any{
		"timeout":    timeoutFlag,
		"port-file":  portFileFlag,
		"no-daemon":  noDaemonFlag,
		"log-file":   logFileFlag,
		"no-journal": noJournalFlag,
	}
}
