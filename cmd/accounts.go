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

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and the net worth" }
func (*accountsCmd) Usage() string {
	return `lgr accounts

  Lists the accounts with their balance, converted to the main currency, and
  the net worth.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return read(ctx, func(l *ledger.Ledger) error {
		printMarkdown(renderer.Accounts(l.State().NetWorth()))
		return nil
	})
}

// accountFlags are the editable fields of an account.
type accountFlags struct {
	name    string
	typ     string
	balance string
	color   string
	icon    string
}

func (c *accountFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.typ, "type", string(ledger.Checking), "Account type (checking, cash, credit, investment, crypto, wallet, loan, savings, business, other).")
	f.StringVar(&c.balance, "balance", "0", "Account balance.")
	f.StringVar(&c.color, "color", "", "Display color.")
	f.StringVar(&c.icon, "icon", "", "Display icon.")
}

// apply sets on a the fields whose flag is listed in set.
func (c *accountFlags) apply(a *ledger.Account, set map[string]bool) error {
	var err error
	if set["name"] {
		a.Name = c.name
	}
	if set["type"] {
		if a.Type, err = ledger.ParseAccountType(c.typ); err != nil {
			return err
		}
	}
	if set["balance"] {
		if a.Balance, err = parseAmount("balance", c.balance); err != nil {
			return err
		}
	}
	if set["color"] {
		a.Color = c.color
	}
	if set["icon"] {
		a.Icon = c.icon
	}
	return nil
}

// visited returns the names of the flags set on the command line.
func visited(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

type accountAddCmd struct {
	accountFlags
	currency string
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "add an account" }
func (*accountAddCmd) Usage() string {
	return `lgr account-add -name <name> [-type <type>] [-currency <code>] [-balance <amount>]

  Adds an account. The balance is the opening balance, the currency defaults
  to the main currency and cannot be changed afterwards.
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	c.accountFlags.SetFlags(f)
	f.StringVar(&c.currency, "currency", "", "Account currency code. Defaults to the main currency.")
}

func (c *accountAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		a := ledger.Account{Currency: c.currency}
		all := map[string]bool{"name": true, "type": true, "balance": true, "color": true, "icon": true}
		if err := c.apply(&a, all); err != nil {
			return err
		}
		a, err := l.AddAccount(a)
		if err != nil {
			return err
		}
		fmt.Printf("Added account %s (%s) with a balance of %s\n", a.Name, a.ID, a.Money())
		return nil
	})
}

type accountEditCmd struct {
	accountFlags
}

func (*accountEditCmd) Name() string     { return "account-edit" }
func (*accountEditCmd) Synopsis() string { return "edit an account" }
func (*accountEditCmd) Usage() string {
	return `lgr account-edit [-name <name>] [-type <type>] [-balance <amount>] <account>

  Edits the fields given as flags. Changing the balance is a manual
  adjustment: it also moves the opening balance.
`
}

func (c *accountEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		a, err := resolveAccount(l, f.Arg(0))
		if err != nil {
			return err
		}
		if err := c.apply(&a, visited(f)); err != nil {
			return err
		}
		if a, err = l.UpdateAccount(a); err != nil {
			return err
		}
		fmt.Printf("Updated account %s, balance %s\n", a.Name, a.Money())
		return nil
	})
}

type accountRmCmd struct {
	mode string
	to   string
}

func (*accountRmCmd) Name() string     { return "account-rm" }
func (*accountRmCmd) Synopsis() string { return "delete an account" }
func (*accountRmCmd) Usage() string {
	return `lgr account-rm [-mode delete | -mode move -to <account>] <account>

  Deletes an account. An account used by transactions is only deleted with a
  mode: 'delete' deletes its transactions too, 'move' moves them to another
  account.
`
}

func (c *accountRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", "", "What to do with the account transactions: delete or move.")
	f.StringVar(&c.to, "to", "", "Account receiving the transactions with -mode move.")
}

func (c *accountRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account is required.")
		return subcommands.ExitUsageError
	}
	mode, err := ledger.ParseDeletionMode(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if (mode == ledger.MoveTransactions) != (c.to != "") {
		fmt.Fprintln(os.Stderr, "Error: -to goes with -mode move, and only with it.")
		return subcommands.ExitUsageError
	}

	return edit(ctx, func(l *ledger.Ledger) error {
		a, err := resolveAccount(l, f.Arg(0))
		if err != nil {
			return err
		}
		var target string
		if mode == ledger.MoveTransactions {
			to, err := resolveAccount(l, c.to)
			if err != nil {
				return err
			}
			target = to.ID
		}
		plan, err := l.PlanAccountDeletion(a.ID)
		if err != nil {
			return err
		}
		if err := l.DeleteAccount(a.ID, mode, target); err != nil {
			if errors.Is(err, ledger.ErrStrategyRequired) {
				printMarkdown(renderer.DeletionPlan(plan))
			}
			return err
		}
		fmt.Printf("Deleted account %s", a.Name)
		switch {
		case !plan.RequiresStrategy():
		case mode == ledger.DeleteTransactions:
			fmt.Printf(" and %d transactions", plan.References)
		case mode == ledger.MoveTransactions:
			fmt.Printf(", %d transactions moved to %s", plan.References, c.to)
		}
		fmt.Println()
		return nil
	})
}

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check account balances against their transactions" }
func (*checkCmd) Usage() string {
	return `lgr check

  Recomputes each account balance from its opening balance and paid
  transactions, and lists the accounts whose balance differs. It fails when
  there is any difference.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var mismatches []ledger.BalanceMismatch
	status := read(ctx, func(l *ledger.Ledger) error {
		mismatches = l.State().CheckBalances()
		printMarkdown(renderer.BalanceCheck(mismatches))
		return nil
	})
	if status == subcommands.ExitSuccess && len(mismatches) > 0 {
		return subcommands.ExitFailure
	}
	return status
}
