package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/metaygn/aletheia-hooks/internal/policy"
)

const (
	kindRules        = "rules"
	kindPrompt       = "prompt"
	kindVerification = "verification"
)

var (
	patternsOutput string
	patternsKind   string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the local policy tables",
	Long: `List the tables the local policy evaluates when the daemon is offline.

Kinds:
  rules         tool-use rules in evaluation order (first match wins)
  prompt        prompt risk markers
  verification  verification command keywords

Configured extras from [policy] are included.

Examples:
  aletheia-hooks patterns
  aletheia-hooks patterns --kind prompt
  aletheia-hooks patterns --output yaml`,
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)

	patternsCmd.Flags().StringVarP(&patternsOutput, "output", "o", "table", "Output format (table, json, yaml)")
	patternsCmd.Flags().StringVar(&patternsKind, "kind", kindRules, "Table to list (rules, prompt, verification)")
}

// ruleRow is the listing form of a policy rule.
type ruleRow struct {
	Order    int    `json:"order" yaml:"order"`
	Category string `json:"category" yaml:"category"`
	Decision string `json:"decision" yaml:"decision"`
	Pattern  string `json:"pattern" yaml:"pattern"`
}

// markerRow is the listing form of a keyword table entry.
type markerRow struct {
	Group  string `json:"group" yaml:"group"`
	Marker string `json:"marker" yaml:"marker"`
}

func runPatterns(cmd *cobra.Command, _ []string) error {
	engine, err := loadEngine()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch patternsKind {
	case kindRules:
		rules := engine.Rules()
		rows := make([]ruleRow, 0, len(rules))

		for i, r := range rules {
			rows = append(rows, ruleRow{
				Order:    i + 1,
				Category: string(r.Category),
				Decision: string(r.Decision),
				Pattern:  r.Pattern,
			})
		}

		return writeRows(out, rows, []string{"#", "Category", "Decision", "Pattern"}, func(r ruleRow) []string {
			return []string{strconv.Itoa(r.Order), r.Category, r.Decision, r.Pattern}
		})

	case kindPrompt:
		rows := markerRows(string(policy.TierHigh), policy.HighRiskMarkers)
		rows = append(rows, markerRows(string(policy.TierLow), policy.LowRiskMarkers)...)

		return writeRows(out, rows, []string{"Tier", "Marker"}, markerCells)

	case kindVerification:
		rows := markerRows(kindVerification, engine.VerificationKeywords())

		return writeRows(out, rows, []string{"Group", "Keyword"}, markerCells)

	default:
		err := errors.Newf("unknown kind %q", patternsKind)
		if s := suggest(patternsKind, []string{kindRules, kindPrompt, kindVerification}); s != "" {
			return errors.WithHintf(err, "did you mean %s?", s)
		}

		return err
	}
}

func markerRows(group string, markers []string) []markerRow {
	rows := make([]markerRow, 0, len(markers))
	for _, m := range markers {
		rows = append(rows, markerRow{Group: group, Marker: m})
	}

	return rows
}

func markerCells(r markerRow) []string {
	return []string{r.Group, r.Marker}
}

func writeRows[T any](out io.Writer, rows []T, headers []string, cells func(T) []string) error {
	switch patternsOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(rows), "encoding JSON")

	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		if err := enc.Encode(rows); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}

		return errors.Wrap(enc.Close(), "encoding YAML")

	case "table":
		t := newTable(out)
		t.Header(headers)

		for _, r := range rows {
			if err := t.Append(cells(r)); err != nil {
				return errors.Wrap(err, "building table")
			}
		}

		if err := t.Render(); err != nil {
			return errors.Wrap(err, "rendering table")
		}

		fmt.Fprintf(out, "%d entries\n", len(rows))

		return nil

	default:
		return errors.Newf("unknown output format %q", patternsOutput)
	}
}

func newTable(out io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)
}
