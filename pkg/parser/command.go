// Package parser provides Bash command parsing capabilities using mvdan.cc/sh
package parser

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Location represents position in source code.
type Location struct {
	Line   uint
	Column uint
}

// Command represents a parsed simple command.
type Command struct {
	Name     string   // Command name (e.g., "cat")
	Args     []string // Command arguments with quotes removed
	Location Location // Position in source
}

// String returns a string representation of the command.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}

// Operands returns the arguments that are not flags. For --flag=value forms
// the value part is returned.
func (c *Command) Operands() []string {
	operands := make([]string, 0, len(c.Args))

	for _, arg := range c.Args {
		if !strings.HasPrefix(arg, "-") {
			operands = append(operands, arg)

			continue
		}

		if _, value, ok := strings.Cut(arg, "="); ok && value != "" {
			operands = append(operands, value)
		}
	}

	return operands
}

// literal renders the statically known text of a word. Parameter expansions
// and command substitutions contribute nothing, so "$HOME/.env" yields "/.env".
func literal(word *syntax.Word) string {
	if word == nil {
		return ""
	}

	var result strings.Builder

	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			result.WriteString(p.Value)
		case *syntax.SglQuoted:
			result.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dqPart := range p.Parts {
				if lit, ok := dqPart.(*syntax.Lit); ok {
					result.WriteString(lit.Value)
				}
			}
		}
	}

	return result.String()
}

func literals(words []*syntax.Word) []string {
	result := make([]string, 0, len(words))

	for _, word := range words {
		if s := literal(word); s != "" {
			result = append(result, s)
		}
	}

	return result
}
