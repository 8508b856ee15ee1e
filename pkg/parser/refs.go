package parser

import "fmt"

// RefOp tells how a command refers to a path.
type RefOp int

const (
	// RefOperand is a non-flag command argument.
	RefOperand RefOp = iota
	// RefRead is an input redirection (<).
	RefRead
	// RefWrite is an output redirection (>, >|, &>).
	RefWrite
	// RefAppend is an appending redirection (>>, &>>).
	RefAppend
)

// String returns string representation of RefOp.
func (o RefOp) String() string {
	switch o {
	case RefOperand:
		return "Operand"
	case RefRead:
		return "Read"
	case RefWrite:
		return "Write"
	case RefAppend:
		return "Append"
	default:
		return "Unknown"
	}
}

// PathRef is a path-like word found in a command line.
type PathRef struct {
	Path     string   // The literal word
	Op       RefOp    // How the word is used
	Command  string   // Owning command name, empty for bare redirections
	Location Location // Position in source
}

// String returns a string representation of the reference.
func (r *PathRef) String() string {
	if r.Command == "" {
		return fmt.Sprintf("%s %s", r.Op, r.Path)
	}

	return fmt.Sprintf("%s %s (%s)", r.Op, r.Path, r.Command)
}
