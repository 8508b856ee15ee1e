package policy

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
	"github.com/metaygn/aletheia-hooks/pkg/parser"
)

// pathKeys are tool_input arguments that name a file directly.
var pathKeys = []string{"file_path", "path", "notebook_path"}

// SensitiveGate flags tool calls that touch secret-bearing paths.
type SensitiveGate struct {
	patterns []string
	parser   *parser.BashParser
}

// NewSensitiveGate validates the glob patterns and builds a gate. An empty
// list selects DefaultSensitivePatterns.
func NewSensitiveGate(patterns []string) (*SensitiveGate, error) {
	if len(patterns) == 0 {
		patterns = DefaultSensitivePatterns
	}

	normalized := make([]string, 0, len(patterns))

	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Wrapf(ErrInvalidPattern, "glob %q", p)
		}

		normalized = append(normalized, p)
	}

	return &SensitiveGate{
		patterns: normalized,
		parser:   parser.NewBashParser(),
	}, nil
}

// Patterns returns the globs in evaluation order.
func (g *SensitiveGate) Patterns() []string {
	return append([]string(nil), g.patterns...)
}

// Match returns the first candidate path that matches a sensitive glob.
func (g *SensitiveGate) Match(input *hook.ToolInput) (string, bool) {
	for _, candidate := range g.candidates(input) {
		if g.MatchPath(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// MatchPath reports whether a single path matches any sensitive glob.
func (g *SensitiveGate) MatchPath(path string) bool {
	normalized := normalizePath(path)
	if normalized == "" {
		return false
	}

	for _, pattern := range g.patterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
	}

	return false
}

// candidates lists direct path arguments first, then words of a Bash command.
func (g *SensitiveGate) candidates(input *hook.ToolInput) []string {
	var paths []string

	for _, key := range pathKeys {
		if p, ok := input.String(key); ok && p != "" {
			paths = append(paths, p)
		}
	}

	command, ok := input.String("command")
	if !ok || strings.TrimSpace(command) == "" {
		return paths
	}

	result, err := g.parser.Parse(command)
	if err != nil {
		// unparsable shell still gets a best-effort word scan
		return append(paths, strings.Fields(command)...)
	}

	return append(paths, result.Paths()...)
}

func normalizePath(path string) string {
	p := strings.ToLower(filepath.ToSlash(strings.TrimSpace(path)))
	p = strings.TrimPrefix(p, "~/")

	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}

	return strings.TrimLeft(p, "/")
}
