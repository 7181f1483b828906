package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/shopspring/decimal"
)

type initCmd struct {
	currency string
	force    bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create an empty workspace" }
func (*initCmd) Usage() string {
	return `lgr init [-currency <code>] [-force]

  Creates an empty workspace file whose only currency is the main currency.
  An existing workspace is only replaced with -force.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Main currency code. Defaults to $LEDGER_MAIN_CURRENCY or USD.")
	f.BoolVar(&c.force, "force", false, "Replace an existing workspace.")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: init takes no arguments.")
		return subcommands.ExitUsageError
	}
	if _, err := os.Stat(settings.File); !c.force && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: workspace %q already exists, use -force to replace it.\n", settings.File)
		return subcommands.ExitFailure
	}

	opts := ledgerOptions(ctx)
	if c.currency != "" {
		opts = append(opts, ledger.WithMainCurrency(ledger.NewCurrency(c.currency, decimal.NewFromInt(1))))
	}
	l := ledger.NewLedger(opts...)
	if err := saveLedger(ctx, l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created workspace %s with main currency %s\n", settings.File, l.MainCurrency().Code)
	return subcommands.ExitSuccess
}
