package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// Op names one operation of the command surface.
type Op string

const (
	OpList     Op = "list"
	OpAdd      Op = "add"
	OpDelete   Op = "delete"
	OpToggle   Op = "complete"
	OpEdit     Op = "edit"
	OpPriority Op = "priority"
	OpUI       Op = "ui"
	OpHelp     Op = "help"
)

var aliases = map[string]Op{
	"list":          OpList,
	"ls":            OpList,
	"add":           OpAdd,
	"delete":        OpDelete,
	"-d":            OpDelete,
	"--delete":      OpDelete,
	"rm":            OpDelete,
	"complete":      OpToggle,
	"-c":            OpToggle,
	"--complete":    OpToggle,
	"done":          OpToggle,
	"edit":          OpEdit,
	"-e":            OpEdit,
	"--edit":        OpEdit,
	"priority":      OpPriority,
	"-p":            OpPriority,
	"--priority":    OpPriority,
	"ui":            OpUI,
	"-i":            OpUI,
	"--interactive": OpUI,
	"help":          OpHelp,
	"-h":            OpHelp,
	"--help":        OpHelp,
}

// Command is one parsed invocation: which operation, with which parameters.
type Command struct {
	Op       Op
	ID       int
	Text     string
	Priority int
}

// UsageError means the arguments do not form a command (exit 2).
type UsageError struct{ Msg string }

func (e *UsageError) Error() string { return e.Msg }

// ArgError means a numeric argument could not be used (exit 1).
type ArgError struct{ Msg string }

func (e *ArgError) Error() string { return e.Msg }

// IsCommand reports whether word names a subcommand or one of its aliases.
func IsCommand(word string) bool {
	_, ok := aliases[word]
	return ok
}

// valueFlags are the root flags that take a separate value argument.
var valueFlags = map[string]bool{
	"file":       true,
	"theme":      true,
	"log-level":  true,
	"log-format": true,
}

// SplitArgs separates root flags from the command and its arguments.
// Everything before the first command word is left for the root flag set.
// The argument after a value-taking root flag is its value, never a command.
func SplitArgs(args []string) (root, rest []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if IsCommand(a) {
			return args[:i], args[i:]
		}
		if name := strings.TrimLeft(a, "-"); name != a && valueFlags[name] {
			i++
		}
	}
	return args, nil
}

// Parse maps raw arguments to a Command. No arguments means list.
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Op: OpList}, nil
	}
	word, a := args[0], args[1:]
	op, ok := aliases[word]
	if !ok {
		return Command{}, &UsageError{Msg: "unknown subcommand: " + word}
	}

	switch op {
	case OpList, OpHelp, OpUI:
		if len(a) != 0 {
			return Command{}, &UsageError{Msg: fmt.Sprintf("usage: todo %s", op)}
		}
		return Command{Op: op}, nil

	case OpAdd:
		if len(a) == 0 {
			return Command{}, &UsageError{Msg: "usage: todo add <text...> [priority]"}
		}
		cmd := Command{Op: OpAdd, Text: strings.Join(a, " ")}
		if len(a) > 1 {
			last := a[len(a)-1]
			if n, err := strconv.Atoi(last); err == nil {
				if n < 1 {
					return Command{}, &ArgError{Msg: "add: priority must be a positive integer: " + last}
				}
				cmd.Text = strings.Join(a[:len(a)-1], " ")
				cmd.Priority = n
			}
		}
		return cmd, nil

	case OpDelete, OpToggle:
		if len(a) != 1 {
			return Command{}, &UsageError{Msg: fmt.Sprintf("usage: todo %s <id>", op)}
		}
		id, err := parseID(op, a[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Op: op, ID: id}, nil

	case OpEdit:
		if len(a) < 2 {
			return Command{}, &UsageError{Msg: "usage: todo edit <id> <text...>"}
		}
		id, err := parseID(op, a[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Op: op, ID: id, Text: strings.Join(a[1:], " ")}, nil

	case OpPriority:
		if len(a) != 2 {
			return Command{}, &UsageError{Msg: "usage: todo priority <id> <value>"}
		}
		id, err := parseID(op, a[0])
		if err != nil {
			return Command{}, err
		}
		p, err := strconv.Atoi(a[1])
		if err != nil || p < 1 {
			return Command{}, &ArgError{Msg: "priority: not a positive integer: " + a[1]}
		}
		return Command{Op: op, ID: id, Priority: p}, nil
	}

	return Command{}, &UsageError{Msg: "unknown subcommand: " + word}
}

func parseID(op Op, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &ArgError{Msg: fmt.Sprintf("%s: not a valid id: %s", op, s)}
	}
	return n, nil
}
