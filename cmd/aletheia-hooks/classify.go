package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	internalconfig "github.com/metaygn/aletheia-hooks/internal/config"
	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var (
	classifyOutput  string
	classifyCommand string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run the local policy on a single input",
	Long: `Run the local policy on a single input without the daemon.

Subcommands:
  tool     classify a tool call
  prompt   classify a user prompt
  command  detect verification evidence in a shell command`,
}

var classifyToolCmd = &cobra.Command{
	Use:   "tool <name> [tool-input-json]",
	Short: "Classify a tool call",
	Long: `Classify a tool call the way PreToolUse does when the daemon is offline.

Examples:
  aletheia-hooks classify tool Bash --command 'sudo rm -rf /'
  aletheia-hooks classify tool Read '{"file_path":".env"}'
  aletheia-hooks classify tool mcp__github__create_issue`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClassifyTool,
}

var classifyPromptCmd = &cobra.Command{
	Use:   "prompt <text>",
	Short: "Classify a user prompt into a risk tier",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassifyPrompt,
}

var classifyVerificationCmd = &cobra.Command{
	Use:   "command <shell-command>",
	Short: "Detect verification evidence in a shell command",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassifyVerification,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.AddCommand(classifyToolCmd, classifyPromptCmd, classifyVerificationCmd)

	classifyCmd.PersistentFlags().StringVarP(&classifyOutput, "output", "o", "text", "Output format (text, json, yaml)")
	classifyToolCmd.Flags().StringVar(&classifyCommand, "command", "", "Shorthand for {\"command\": ...}")
}

// toolVerdict is the printed form of a tool classification.
type toolVerdict struct {
	Tool    string          `json:"tool" yaml:"tool"`
	Verdict *policy.Verdict `json:"verdict" yaml:"verdict"`
}

// verificationResult is the printed form of a verification check.
type verificationResult struct {
	Command      string `json:"command" yaml:"command"`
	Verification bool   `json:"verification" yaml:"verification"`
	Keyword      string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
}

func runClassifyTool(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine()
	if err != nil {
		return err
	}

	toolInput := hook.NewToolInput()

	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), toolInput); err != nil {
			return errors.Wrap(err, "tool input must be a JSON object")
		}
	}

	if classifyCommand != "" {
		if err := toolInput.Set("command", classifyCommand); err != nil {
			return errors.Wrap(err, "setting command")
		}
	}

	res := toolVerdict{Tool: args[0], Verdict: engine.ClassifyToolUse(args[0], toolInput)}

	return printResult(cmd.OutOrStdout(), res, func() string {
		if res.Verdict == nil {
			return "no opinion (allowed by default)"
		}

		return fmt.Sprintf("%s [%s] %s", res.Verdict.Decision, res.Verdict.Category, res.Verdict.Reason)
	})
}

func runClassifyPrompt(cmd *cobra.Command, args []string) error {
	class := policy.ClassifyPrompt(strings.Join(args, " "))

	return printResult(cmd.OutOrStdout(), class, class.Context)
}

func runClassifyVerification(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine()
	if err != nil {
		return err
	}

	command := strings.Join(args, " ")
	keyword, ok := engine.DetectVerification(command)
	res := verificationResult{Command: command, Verification: ok, Keyword: keyword}

	return printResult(cmd.OutOrStdout(), res, func() string {
		if !ok {
			return "no verification signal"
		}

		return fmt.Sprintf("verification signal (%s)", keyword)
	})
}

func printResult(out io.Writer, v any, text func() string) error {
	switch classifyOutput {
	case "text":
		_, err := fmt.Fprintln(out, text())

		return errors.Wrap(err, "writing output")

	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(v), "encoding JSON")

	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "encoding YAML")
		}

		_, err = out.Write(data)

		return errors.Wrap(err, "writing output")

	default:
		return errors.Newf("unknown output format %q", classifyOutput)
	}
}

// loadEngine builds the policy engine from the merged configuration.
func loadEngine() (*policy.Engine, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	cfg, err := loader.Load(buildFlagsMap())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	engine, err := policy.NewFromConfig(cfg.GetPolicy())
	if err != nil {
		return nil, errors.Wrap(err, "failed to build policy")
	}

	return engine, nil
}
