package parser

import (
	"mvdan.cc/sh/v3/syntax"
)

// astWalker walks the AST and collects commands and path references.
type astWalker struct {
	commands []Command
	refs     []PathRef
}

// visit is called for each node in the AST. Subshells, pipelines and command
// substitutions are descended into by syntax.Walk itself.
func (w *astWalker) visit(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.CallExpr:
		w.extractCommand(n)
	case *syntax.Redirect:
		w.extractRedirect(n)
	}

	return true
}

func (w *astWalker) extractCommand(call *syntax.CallExpr) {
	if len(call.Args) == 0 {
		return
	}

	name := literal(call.Args[0])
	if name == "" {
		return
	}

	cmd := Command{
		Name: name,
		Args: literals(call.Args[1:]),
		Location: Location{
			Line:   call.Pos().Line(),
			Column: call.Pos().Col(),
		},
	}

	w.commands = append(w.commands, cmd)

	for _, operand := range cmd.Operands() {
		w.refs = append(w.refs, PathRef{
			Path:     operand,
			Op:       RefOperand,
			Command:  cmd.Name,
			Location: cmd.Location,
		})
	}
}

func (w *astWalker) extractRedirect(redir *syntax.Redirect) {
	var op RefOp

	switch redir.Op {
	case syntax.RdrIn:
		op = RefRead
	case syntax.RdrOut, syntax.ClbOut, syntax.RdrAll:
		op = RefWrite
	case syntax.AppOut, syntax.AppAll:
		op = RefAppend
	default:
		// heredocs, here-strings and fd duplication carry no path
		return
	}

	path := literal(redir.Word)
	if path == "" {
		return
	}

	w.refs = append(w.refs, PathRef{
		Path: path,
		Op:   op,
		Location: Location{
			Line:   redir.Pos().Line(),
			Column: redir.Pos().Col(),
		},
	})
}
