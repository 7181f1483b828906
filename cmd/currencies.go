package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/renderer"
	"github.com/shopspring/decimal"
)

type currenciesCmd struct{}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list currencies" }
func (*currenciesCmd) Usage() string {
	return `lgr currencies

  Lists the currency table with the rates relative to the common base.
`
}

func (c *currenciesCmd) SetFlags(f *flag.FlagSet) {}

func (c *currenciesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return read(ctx, func(l *ledger.Ledger) error {
		printMarkdown(renderer.Currencies(slices.Collect(l.Currencies())))
		return nil
	})
}

// currencyFlags are the editable fields of a currency.
type currencyFlags struct {
	name   string
	symbol string
	rate   string
}

func (c *currencyFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Currency name.")
	f.StringVar(&c.symbol, "symbol", "", "Currency symbol.")
	f.StringVar(&c.rate, "rate", "1", "Rate relative to the common base, the amount of this currency worth one base unit.")
}

func (c *currencyFlags) apply(cur *ledger.Currency, set map[string]bool) error {
	var err error
	if set["name"] {
		cur.Name = c.name
	}
	if set["symbol"] {
		cur.Symbol = c.symbol
	}
	if set["rate"] {
		if cur.Rate, err = parseAmount("rate", c.rate); err != nil {
			return err
		}
	}
	return nil
}

type currencyAddCmd struct {
	currencyFlags
	code string
	main bool
}

func (*currencyAddCmd) Name() string     { return "currency-add" }
func (*currencyAddCmd) Synopsis() string { return "add a currency" }
func (*currencyAddCmd) Usage() string {
	return `lgr currency-add -code <code> -rate <rate> [-name <name>] [-symbol <symbol>] [-main]

  Adds a currency. Name and symbol default to the well known ones.
`
}

func (c *currencyAddCmd) SetFlags(f *flag.FlagSet) {
	c.currencyFlags.SetFlags(f)
	f.StringVar(&c.code, "code", "", "Currency code, like EUR (required).")
	f.BoolVar(&c.main, "main", false, "Make it the main currency.")
}

func (c *currencyAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.code == "" {
		fmt.Fprintln(os.Stderr, "Error: -code is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		cur := ledger.Currency{Code: c.code, IsMain: c.main}
		if err := c.apply(&cur, map[string]bool{"name": true, "symbol": true, "rate": true}); err != nil {
			return err
		}
		cur, err := l.AddCurrency(cur)
		if err != nil {
			return err
		}
		fmt.Printf("Added currency %s (%s) at rate %s\n", cur.Code, cur.Name, cur.Rate)
		return nil
	})
}

type currencyEditCmd struct {
	currencyFlags
}

func (*currencyEditCmd) Name() string     { return "currency-edit" }
func (*currencyEditCmd) Synopsis() string { return "edit a currency" }
func (*currencyEditCmd) Usage() string {
	return `lgr currency-edit [-rate <rate>] [-name <name>] [-symbol <symbol>] <code>

  Edits the fields given as flags. Existing amounts are not converted.
`
}

func (c *currencyEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one currency code is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		cur, ok := l.Currency(code(f, 0))
		if !ok {
			return fmt.Errorf("currency %q: %w", code(f, 0), ledger.ErrUnknownCurrency)
		}
		if err := c.apply(&cur, visited(f)); err != nil {
			return err
		}
		cur, err := l.UpdateCurrency(cur)
		if err != nil {
			return err
		}
		fmt.Printf("Updated currency %s (%s) at rate %s\n", cur.Code, cur.Name, cur.Rate)
		return nil
	})
}

type currencyRmCmd struct{}

func (*currencyRmCmd) Name() string     { return "currency-rm" }
func (*currencyRmCmd) Synopsis() string { return "delete a currency" }
func (*currencyRmCmd) Usage() string {
	return `lgr currency-rm <code>

  Deletes a currency. The main currency cannot be deleted.
`
}

func (c *currencyRmCmd) SetFlags(f *flag.FlagSet) {}

func (c *currencyRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one currency code is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		if err := l.DeleteCurrency(code(f, 0)); err != nil {
			return err
		}
		fmt.Printf("Deleted currency %s\n", code(f, 0))
		return nil
	})
}

type currencyMainCmd struct{}

func (*currencyMainCmd) Name() string     { return "currency-main" }
func (*currencyMainCmd) Synopsis() string { return "change the main currency" }
func (*currencyMainCmd) Usage() string {
	return `lgr currency-main <code>

  Makes a registered currency the main currency, the one totals are
  expressed in.
`
}

func (c *currencyMainCmd) SetFlags(f *flag.FlagSet) {}

func (c *currencyMainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one currency code is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		if err := l.SetMainCurrency(code(f, 0)); err != nil {
			return err
		}
		fmt.Printf("Main currency is now %s\n", l.MainCurrency().Code)
		return nil
	})
}

type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show an exchange rate or convert an amount" }
func (*rateCmd) Usage() string {
	return `lgr rate <from> <to> [<amount>]

  Shows the factor converting amounts in 'from' into 'to', or converts the
  amount when given.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 && f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: rate needs two currency codes and an optional amount.")
		return subcommands.ExitUsageError
	}
	from, to := code(f, 0), code(f, 1)
	return read(ctx, func(l *ledger.Ledger) error {
		if f.NArg() == 3 {
			amount, err := decimal.NewFromString(f.Arg(2))
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", f.Arg(2), ledger.ErrInvalid)
			}
			m, err := l.Convert(ledger.M(amount, from), to)
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", ledger.M(amount, from), m)
			return nil
		}
		rate, err := l.ExchangeRate(from, to)
		if err != nil {
			return err
		}
		fmt.Printf("1 %s = %s %s\n", from, rate.StringFixed(6), to)
		return nil
	})
}

// code returns the i-th argument as a currency code.
func code(f *flag.FlagSet, i int) string { return strings.ToUpper(f.Arg(i)) }
