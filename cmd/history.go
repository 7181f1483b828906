package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/renderer"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the snapshots of the ledger" }
func (*historyCmd) Usage() string {
	return `lgr history

  Lists the recorded snapshots, oldest first, and marks the current one.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return read(ctx, func(l *ledger.Ledger) error {
		printMarkdown(renderer.History(l.History()))
		return nil
	})
}

var errNothing = errors.New("nothing to do")

type undoCmd struct{}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "undo the last change" }
func (*undoCmd) Usage() string {
	return `lgr undo

  Goes back to the previous snapshot. The undone change can be redone until
  a new change is made.
`
}

func (c *undoCmd) SetFlags(f *flag.FlagSet) {}

func (c *undoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return edit(ctx, func(l *ledger.Ledger) error {
		undone, _ := l.History().Current()
		if !l.Undo() {
			return fmt.Errorf("undo: %w", errNothing)
		}
		fmt.Printf("Undone: %s\n", undone.Description())
		return nil
	})
}

type redoCmd struct{}

func (*redoCmd) Name() string     { return "redo" }
func (*redoCmd) Synopsis() string { return "redo the last undone change" }
func (*redoCmd) Usage() string {
	return `lgr redo

  Goes forward to the next snapshot.
`
}

func (c *redoCmd) SetFlags(f *flag.FlagSet) {}

func (c *redoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return edit(ctx, func(l *ledger.Ledger) error {
		if !l.Redo() {
			return fmt.Errorf("redo: %w", errNothing)
		}
		redone, _ := l.History().Current()
		fmt.Printf("Redone: %s\n", redone.Description())
		return nil
	})
}

type restoreCmd struct{}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "restore the ledger to a snapshot" }
func (*restoreCmd) Usage() string {
	return `lgr restore <snapshot>

  Restores the ledger to a snapshot designated by its number in 'lgr history'
  or by its ID. Later snapshots stay available to redo.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one snapshot is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		s, err := resolveSnapshot(l.History(), f.Arg(0))
		if err != nil {
			return err
		}
		if err := l.RestoreToSnapshot(s.ID); err != nil {
			return err
		}
		fmt.Printf("Restored to %s (%s)\n", s.Description(), short(s.ID))
		return nil
	})
}

type clearHistoryCmd struct{}

func (*clearHistoryCmd) Name() string     { return "clear-history" }
func (*clearHistoryCmd) Synopsis() string { return "forget every snapshot" }
func (*clearHistoryCmd) Usage() string {
	return `lgr clear-history

  Forgets every snapshot and keeps the current data. It cannot be undone.
`
}

func (c *clearHistoryCmd) SetFlags(f *flag.FlagSet) {}

func (c *clearHistoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return edit(ctx, func(l *ledger.Ledger) error {
		n := l.History().Len()
		l.ClearHistory()
		fmt.Printf("Cleared %d snapshots\n", n)
		return nil
	})
}
