package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/renderer"
)

type txCmd struct {
	account  string
	typ      string
	category string
	paid     string
	period   string
	start    string
	date     string
	head     int
	tail     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `lgr tx [-account <account>] [-type <type>] [-category <name>] [-paid yes|no]
       [-p <period> | -s <start_date>] [-d <end_date>] [-head <n>] [-tail <n>]

  Lists transactions, oldest first, with options for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "account", "", "Only transactions from or to this account.")
	f.StringVar(&p.typ, "type", "", "Only transactions of this type (income, expense, transfer).")
	f.StringVar(&p.category, "category", "", "Only transactions in this category.")
	f.StringVar(&p.paid, "paid", "", "Only paid (yes) or unpaid (no) transactions.")
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	var filters []ledger.Filter
	// If no date range flags are provided, use the full range of the ledger.
	if p.start != "" || p.date != "" || p.period != "" {
		from, to, err := dateRange(p.period, p.start, p.date, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, ledger.Between(from, to))
	}
	if p.typ != "" {
		typ, err := ledger.ParseTransactionType(p.typ)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, ledger.ByType(typ))
	}
	switch p.paid {
	case "":
	case "yes":
		filters = append(filters, ledger.Paid(true))
	case "no":
		filters = append(filters, ledger.Paid(false))
	default:
		fmt.Fprintf(os.Stderr, "Error: -paid must be yes or no, got %q\n", p.paid)
		return subcommands.ExitUsageError
	}
	if p.category != "" {
		filters = append(filters, ledger.ByCategory(p.category))
	}

	return read(ctx, func(l *ledger.Ledger) error {
		if p.account != "" {
			a, err := resolveAccount(l, p.account)
			if err != nil {
				return err
			}
			filters = append(filters, ledger.ByAccount(a.ID))
		}
		transactions := slices.Collect(l.Transactions(filters...))

		if p.head > 0 && len(transactions) > p.head {
			transactions = transactions[:p.head]
		}
		if p.tail > 0 && len(transactions) > p.tail {
			transactions = transactions[len(transactions)-p.tail:]
		}
		printMarkdown(renderer.Transactions(l.State(), transactions))
		return nil
	})
}

// dateRange computes the [from, to) range selected by the period, start and
// end date flags. The end date defaults to today and is included.
func dateRange(period, start, end string, now time.Time) (from, to time.Time, err error) {
	on, err := ledger.ParseDate(end, now)
	if err != nil {
		return from, to, fmt.Errorf("parsing end date: %w", err)
	}
	if start != "" {
		from, err = ledger.ParseDate(start, now)
		if err != nil {
			return from, to, fmt.Errorf("parsing start date: %w", err)
		}
		_, to = ledger.Day.Range(on)
		return from, to, nil
	}
	if period == "" {
		_, to = ledger.Day.Range(on)
		return time.Time{}, to, nil
	}
	p, err := ledger.ParsePeriod(period)
	if err != nil {
		return from, to, err
	}
	from, to = p.Range(on)
	return from, to, nil
}

// txFlags are the editable fields of a transaction.
type txFlags struct {
	typ         string
	amount      string
	currency    string
	account     string
	to          string
	category    string
	subcategory string
	date        string
	paid        bool
	every       int
	unit        string
	note        string
	receipt     string
}

func (c *txFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", string(ledger.Expense), "Transaction type (income, expense, transfer).")
	f.StringVar(&c.amount, "amount", "", "Positive amount.")
	f.StringVar(&c.currency, "currency", "", "Currency code. Defaults to the account currency.")
	f.StringVar(&c.account, "account", "", "Account credited by an income, debited by an expense or a transfer.")
	f.StringVar(&c.to, "to", "", "Account credited by a transfer.")
	f.StringVar(&c.category, "category", "", "Category name, for income and expense.")
	f.StringVar(&c.subcategory, "sub", "", "Subcategory name within the category.")
	f.StringVar(&c.date, "date", "", "Transaction date. See the user manual for supported date formats. Defaults to now.")
	f.BoolVar(&c.paid, "paid", false, "The transaction is paid and moves the balances.")
	f.IntVar(&c.every, "every", 0, "Repeat every N units. 0 means not recurring.")
	f.StringVar(&c.unit, "unit", string(ledger.Monthly), "Recurrence unit (day, week, month, year).")
	f.StringVar(&c.note, "note", "", "Free text note.")
	f.StringVar(&c.receipt, "receipt", "", "Reference to a receipt.")
}

// apply sets on tx the fields whose flag is listed in set.
func (c *txFlags) apply(l *ledger.Ledger, tx *ledger.Transaction, set map[string]bool, now time.Time) error {
	var err error
	if set["type"] {
		if tx.Type, err = ledger.ParseTransactionType(c.typ); err != nil {
			return err
		}
	}
	if set["amount"] {
		if tx.Amount, err = parseAmount("amount", c.amount); err != nil {
			return err
		}
	}
	if set["currency"] {
		tx.Currency = c.currency
	}
	if set["account"] {
		a, err := resolveAccount(l, c.account)
		if err != nil {
			return err
		}
		tx.AccountID = a.ID
	}
	if set["to"] {
		a, err := resolveAccount(l, c.to)
		if err != nil {
			return err
		}
		tx.ToAccountID = a.ID
	}
	if set["category"] {
		tx.Category = c.category
	}
	if set["sub"] {
		tx.Subcategory = c.subcategory
	}
	if set["date"] {
		if tx.Date, err = ledger.ParseDate(c.date, now); err != nil {
			return err
		}
	}
	if set["paid"] {
		tx.IsPaid = c.paid
	}
	if set["every"] {
		tx.IsRecurring = c.every > 0
		tx.RecurringValue = c.every
		if tx.RecurringUnit == "" {
			tx.RecurringUnit = ledger.RecurringUnit(c.unit)
		}
	}
	if set["unit"] {
		if tx.RecurringUnit, err = ledger.ParseRecurringUnit(c.unit); err != nil {
			return err
		}
	}
	if set["note"] {
		tx.Note = c.note
	}
	if set["receipt"] {
		tx.Receipt = c.receipt
	}
	return nil
}

type txAddCmd struct {
	txFlags
}

func (*txAddCmd) Name() string     { return "tx-add" }
func (*txAddCmd) Synopsis() string { return "record a transaction" }
func (*txAddCmd) Usage() string {
	return `lgr tx-add [-type income|expense|transfer] -amount <amount> -account <account>
       [-to <account>] [-category <name> [-sub <name>]] [-date <date>] [-paid]
       [-every <n> -unit <unit>] [-note <text>]

  Records a transaction. Only paid transactions move the account balances.
`
}

func (c *txAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" || c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -amount and -account are required.")
		return subcommands.ExitUsageError
	}
	set := visited(f)
	set["type"] = true
	return edit(ctx, func(l *ledger.Ledger) error {
		var tx ledger.Transaction
		if err := c.apply(l, &tx, set, time.Now()); err != nil {
			return err
		}
		tx, err := l.AddTransaction(tx)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s: %s\n", short(tx.ID), renderer.Transaction(l.State(), tx))
		return nil
	})
}

type txEditCmd struct {
	txFlags
}

func (*txEditCmd) Name() string     { return "tx-edit" }
func (*txEditCmd) Synopsis() string { return "edit a transaction" }
func (*txEditCmd) Usage() string {
	return `lgr tx-edit [flags] <transaction>

  Edits the fields given as flags, see tx-add for the flags. The balance
  effect of the old version is reversed before the new one is applied.
`
}

func (c *txEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one transaction is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		tx, err := resolveTransaction(l, f.Arg(0))
		if err != nil {
			return err
		}
		if err := c.apply(l, &tx, visited(f), time.Now()); err != nil {
			return err
		}
		if tx, err = l.UpdateTransaction(tx); err != nil {
			return err
		}
		fmt.Printf("Updated %s: %s\n", short(tx.ID), renderer.Transaction(l.State(), tx))
		return nil
	})
}

type txRmCmd struct{}

func (*txRmCmd) Name() string     { return "tx-rm" }
func (*txRmCmd) Synopsis() string { return "delete transactions" }
func (*txRmCmd) Usage() string {
	return `lgr tx-rm <transaction>...

  Deletes transactions, reversing their effect on the balances.
`
}

func (c *txRmCmd) SetFlags(f *flag.FlagSet) {}

func (c *txRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one transaction is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		for _, ref := range f.Args() {
			tx, err := resolveTransaction(l, ref)
			if err != nil {
				return err
			}
			if err := l.DeleteTransaction(tx.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted %s: %s\n", short(tx.ID), renderer.Transaction(l.State(), tx))
		}
		return nil
	})
}

type txToggleCmd struct{}

func (*txToggleCmd) Name() string     { return "tx-toggle" }
func (*txToggleCmd) Synopsis() string { return "flip the paid status of a transaction" }
func (*txToggleCmd) Usage() string {
	return `lgr tx-toggle <transaction>

  Marks a paid transaction as unpaid, or an unpaid one as paid, and moves the
  balances accordingly.
`
}

func (c *txToggleCmd) SetFlags(f *flag.FlagSet) {}

func (c *txToggleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one transaction is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		tx, err := resolveTransaction(l, f.Arg(0))
		if err != nil {
			return err
		}
		if tx, err = l.ToggleTransactionPaidStatus(tx.ID); err != nil {
			return err
		}
		fmt.Printf("Toggled %s: %s\n", short(tx.ID), renderer.Transaction(l.State(), tx))
		return nil
	})
}

// short abbreviates an ID for display.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
