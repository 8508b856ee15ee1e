// Package reporters provides output formatting for doctor check results
package reporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/metaygn/aletheia-hooks/internal/color"
	"github.com/metaygn/aletheia-hooks/internal/doctor"
)

const (
	// defaultWidth is used when the output is not a terminal.
	defaultWidth = 100

	iconWidth = 1
	cellPad   = 2
	minMsg    = 20
	ellipsis  = "…"
)

var categoryNames = map[doctor.Category]string{
	doctor.CategoryConfig: "Configuration",
	doctor.CategoryDaemon: "Daemon",
	doctor.CategoryState:  "State Directory",
}

// StatusIcon returns a single-width icon for a check result.
func StatusIcon(result doctor.CheckResult) string {
	switch result.Status {
	case doctor.StatusPass:
		return "✓"
	case doctor.StatusFail:
		switch result.Severity {
		case doctor.SeverityError:
			return "✗"
		case doctor.SeverityWarning:
			return "!"
		default:
			return "i"
		}
	case doctor.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

// StyledIcon returns StatusIcon colored by theme.
func StyledIcon(result doctor.CheckResult, theme color.Theme) string {
	icon := StatusIcon(result)

	switch {
	case result.IsPassed():
		return theme.Pass.Render(icon)
	case result.IsError():
		return theme.Error.Render(icon)
	case result.Status == doctor.StatusFail:
		return theme.Warning.Render(icon)
	case result.IsSkipped():
		return theme.Skip.Render(icon)
	default:
		return icon
	}
}

// TableReporter renders results as a rounded table followed by a summary.
type TableReporter struct {
	out   io.Writer
	width int
	theme color.Theme
}

// NewTableReporter creates a reporter writing to out, fitting rows into
// width columns. A non-positive width uses a default. The zero Theme gives
// plain output.
func NewTableReporter(out io.Writer, width int, theme color.Theme) *TableReporter {
	if width <= 0 {
		width = defaultWidth
	}

	return &TableReporter{out: out, width: width, theme: theme}
}

// Report writes the table and summary.
func (r *TableReporter) Report(results []doctor.CheckResult, verbose bool) error {
	if table := RenderTable(results, verbose, r.width, r.theme); table != "" {
		if _, err := fmt.Fprintln(r.out, table); err != nil {
			return errors.Wrap(err, "writing table")
		}
	}

	_, err := fmt.Fprintln(r.out, RenderSummary(results, r.theme))

	return errors.Wrap(err, "writing summary")
}

// RenderTable builds a table from check results, one category header row
// per group. Messages are truncated to fit width before styling.
func RenderTable(results []doctor.CheckResult, verbose bool, width int, theme color.Theme) string {
	if len(results) == 0 {
		return ""
	}

	headers := []string{"", "Check", "Message"}
	if verbose {
		headers = append(headers, "Details")
	}

	msgWidth := messageWidth(results, verbose, width)

	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenRows: tw.On,
				},
			},
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Merging().WithMode(tw.MergeHorizontal).Build().
			Build().Build()),
	)

	t.Header(headers)

	for _, g := range GroupResultsByCategory(results) {
		catName := theme.Header.Render(categoryName(g.Category))

		catRow := []string{""}
		for i := 1; i < len(headers); i++ {
			catRow = append(catRow, catName)
		}

		_ = t.Append(catRow)

		for _, res := range g.Results {
			row := []string{
				StyledIcon(res, theme),
				theme.Name.Render(res.Name),
				Truncate(res.Message, msgWidth),
			}
			if verbose {
				row = append(row, Truncate(strings.Join(res.Details, "; "), msgWidth))
			}

			_ = t.Append(row)
		}
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

var borderRunes = []string{"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼"}

// dimBorders renders every box-drawing rune with theme.Border.
func dimBorders(s string, theme color.Theme) string {
	for _, r := range borderRunes {
		s = strings.ReplaceAll(s, r, theme.Border.Render(r))
	}

	return s
}

// messageWidth splits what remains after the icon and name columns between
// the free-text columns.
func messageWidth(results []doctor.CheckResult, verbose bool, width int) int {
	nameWidth := 0
	for _, r := range results {
		nameWidth = max(nameWidth, runewidth.StringWidth(r.Name))
	}

	columns := 1
	if verbose {
		columns = 2
	}

	total := 2 + columns
	free := width - (total + 1) - total*cellPad - iconWidth - nameWidth

	return max(free/columns, minMsg)
}

// Truncate shortens s to at most w display cells.
func Truncate(s string, w int) string {
	return runewidth.Truncate(s, w, ellipsis)
}

// RenderSummary returns the summary line. Non-zero error and warning counts
// are highlighted.
func RenderSummary(results []doctor.CheckResult, theme color.Theme) string {
	var errs, warnings, passed, skipped int

	for _, r := range results {
		switch {
		case r.IsError():
			errs++
		case r.IsWarning():
			warnings++
		case r.IsPassed():
			passed++
		case r.IsSkipped():
			skipped++
		}
	}

	parts := []string{
		highlight(fmt.Sprintf("%d error(s)", errs), errs > 0, theme.Error),
		highlight(fmt.Sprintf("%d warning(s)", warnings), warnings > 0, theme.Warning),
		theme.Pass.Render(fmt.Sprintf("%d passed", passed)),
	}

	if skipped > 0 {
		parts = append(parts, theme.Skip.Render(fmt.Sprintf("%d skipped", skipped)))
	}

	return "Summary: " + strings.Join(parts, ", ")
}

func highlight(text string, on bool, style lipgloss.Style) string {
	if !on {
		return text
	}

	return style.Render(text)
}

type categoryGroup struct {
	Category doctor.Category
	Results  []doctor.CheckResult
}

// GroupResultsByCategory groups results in doctor.Categories order, unknown
// categories last. Within a group, errors come first.
func GroupResultsByCategory(results []doctor.CheckResult) []categoryGroup {
	byCategory := make(map[doctor.Category][]doctor.CheckResult)

	var order []doctor.Category

	for _, r := range results {
		if _, seen := byCategory[r.Category]; !seen {
			order = append(order, r.Category)
		}

		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	slices.SortStableFunc(order, func(a, b doctor.Category) int {
		return categoryRank(a) - categoryRank(b)
	})

	groups := make([]categoryGroup, 0, len(order))

	for _, c := range order {
		sorted := slices.Clone(byCategory[c])
		slices.SortStableFunc(sorted, func(a, b doctor.CheckResult) int {
			return severityRank(a) - severityRank(b)
		})

		groups = append(groups, categoryGroup{Category: c, Results: sorted})
	}

	return groups
}

func categoryRank(c doctor.Category) int {
	if i := slices.Index(doctor.Categories, c); i >= 0 {
		return i
	}

	return len(doctor.Categories)
}

func severityRank(r doctor.CheckResult) int {
	switch {
	case r.IsError():
		return 0
	case r.IsWarning():
		return 1
	case r.IsPassed():
		return 2
	default:
		return 3
	}
}

func categoryName(c doctor.Category) string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	s := string(c)
	if s == "" {
		return "Other"
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// JSONReporter writes results as a JSON array.
type JSONReporter struct {
	out io.Writer
}

// NewJSONReporter creates a reporter writing to out.
func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

// Report writes results; verbose has no effect because details are always included.
func (r *JSONReporter) Report(results []doctor.CheckResult, _ bool) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(results), "encoding results")
}
