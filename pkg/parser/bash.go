package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEmptyCommand is returned when trying to parse an empty command.
	ErrEmptyCommand = errors.New("empty command")
	// ErrParseFailed is returned when parsing fails.
	ErrParseFailed = errors.New("failed to parse command")
)

// ParseResult contains the results of parsing a Bash command.
type ParseResult struct {
	Commands []Command // All simple commands, in source order
	PathRefs []PathRef // Operands and redirection targets, in source order
}

// BashParser parses Bash commands using mvdan.cc/sh.
type BashParser struct {
	parser *syntax.Parser
}

// NewBashParser creates a new BashParser instance.
func NewBashParser() *BashParser {
	return &BashParser{
		parser: syntax.NewParser(syntax.Variant(syntax.LangBash)),
	}
}

// Parse parses a Bash command string and extracts commands and path references.
func (p *BashParser) Parse(command string) (*ParseResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	file, err := p.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, errors.Wrap(ErrParseFailed, err.Error())
	}

	walker := &astWalker{}
	syntax.Walk(file, walker.visit)

	return &ParseResult{
		Commands: walker.commands,
		PathRefs: walker.refs,
	}, nil
}

// HasCommand checks if the parse result contains a command with the given name.
func (r *ParseResult) HasCommand(name string) bool {
	for _, cmd := range r.Commands {
		if cmd.Name == name {
			return true
		}
	}

	return false
}

// Paths returns the distinct path-like words in first-seen order.
func (r *ParseResult) Paths() []string {
	seen := make(map[string]struct{}, len(r.PathRefs))
	paths := make([]string, 0, len(r.PathRefs))

	for _, ref := range r.PathRefs {
		if _, dup := seen[ref.Path]; dup {
			continue
		}

		seen[ref.Path] = struct{}{}
		paths = append(paths, ref.Path)
	}

	return paths
}
