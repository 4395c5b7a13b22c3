package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todos/internal/store/jsonstore"
	"github.com/idilsaglam/todos/internal/tui"
	"github.com/idilsaglam/todos/internal/ui"
)

// Options carry the resolved configuration into the runner.
type Options struct {
	Path    string // todo file
	Group   bool   // list grouped by pending/done
	Lock    bool   // hold an exclusive lock for the whole run
	Lenient bool   // treat an undecodable file as empty
	Theme   string
	Logger  *log.Logger
	Stdout  io.Writer
	Stderr  io.Writer
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	p := ui.NewPrinter(opt.Stdout, opt.Stderr, opt.Theme)

	cmd, err := Parse(args)
	if err != nil {
		var usage *UsageError
		p.Fail(err.Error())
		if errors.As(err, &usage) {
			if !IsCommand(firstOrEmpty(args)) {
				fmt.Fprintln(opt.Stderr)
				PrintHelp(opt.Stderr)
			}
			return 2
		}
		return 1
	}

	if cmd.Op == OpHelp {
		PrintHelp(opt.Stdout)
		return 0
	}
	return execute(cmd, opt, p)
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// PrintHelp writes usage text to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a tiny task list

Usage:
  todo [flags] [subcommand] [args]

Subcommands:
  add <text...> [priority]     Add an item (a trailing number is its priority, default 1)
  list, ls                     List items by priority (default)
  complete, -c, done <id>      Toggle completion of an item
  edit, -e <id> <text...>      Replace the text of an item
  priority, -p <id> <value>    Set the priority of an item (1 is highest)
  delete, -d, rm <id>          Delete an item
  ui, -i                       Interactive list
  help, -h                     Show this help

Flags:
  -file <path>       todo file (default ~/.todos, env TODO_FILE)
  -group             group output by pending/done
  -theme <name>      classic, neon or mono
  -lock              hold an exclusive lock on the todo file
  -lenient           treat an unreadable todo file as empty
  -log-level <lvl>   debug, info, warn, error
  -v                 verbose logging

Examples:
  todo add "Buy milk"
  todo add "Call Bob" 1
  todo -c 1
  todo -e 1 "Buy oat milk"
  todo -p 1 2
  todo -d 3
`)
}

// -------------- subcommand impls ----------------

func execute(cmd Command, opt Options, p *ui.Printer) int {
	logger := opt.Logger.With("op", string(cmd.Op))

	if opt.Lock {
		unlock, err := jsonstore.Lock(opt.Path)
		if err != nil {
			p.Fail("lock: " + err.Error())
			return 1
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Warn("unlock failed", "err", err)
			}
		}()
		logger.Debug("lock held", "path", opt.Path)
	}

	s, err := jsonstore.Open(opt.Path, jsonstore.Options{Lenient: opt.Lenient, Logger: logger})
	if err != nil {
		p.Fail("load: " + err.Error())
		return 1
	}

	if cmd.Op == OpUI {
		return doInteractive(s, p)
	}

	if err := apply(s, cmd); err != nil {
		if !errors.Is(err, jsonstore.ErrNotFound) {
			p.Fail(fmt.Sprintf("%s: %s", cmd.Op, err))
			return 1
		}
		p.Warn(fmt.Sprintf("%s: %s", cmd.Op, err))
		p.Hint("Hint: run `todo list` to see valid ids")
	}

	if s.Dirty() {
		if err := s.Publish(); err != nil {
			p.Fail("save: " + err.Error())
			return 1
		}
	}

	items := s.Sorted()
	if opt.Group {
		p.Grouped(items)
	} else {
		p.Items(items)
	}
	return 0
}

// apply performs the single mutation a command asks for. List is a no-op.
func apply(s *jsonstore.Store, cmd Command) error {
	switch cmd.Op {
	case OpAdd:
		_, err := s.Add(cmd.Text, cmd.Priority)
		return err
	case OpDelete:
		return s.Delete(cmd.ID)
	case OpToggle:
		return s.Toggle(cmd.ID)
	case OpEdit:
		return s.UpdateText(cmd.ID, cmd.Text)
	case OpPriority:
		return s.SetPriority(cmd.ID, cmd.Priority)
	}
	return nil
}

func doInteractive(s *jsonstore.Store, p *ui.Printer) int {
	saved, err := tui.Run(s, p.Theme())
	if err != nil {
		p.Fail("ui: " + err.Error())
		return 1
	}
	if saved {
		p.OK("saved")
	}
	return 0
}
