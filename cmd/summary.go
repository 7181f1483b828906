package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
	start  string
	date   string
	all    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display income and expenses by category" }
func (*summaryCmd) Usage() string {
	return `lgr summary [-p <period> | -s <start_date> | -all] [-d <date>]

  Displays the paid income and expenses of a period, converted to the main
  currency, by category. The period defaults to the current month.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "Date in the period, or end of the custom range. Defaults to today.")
	f.BoolVar(&c.all, "all", false, "Summarize every transaction.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var from, to time.Time
	if !c.all {
		var err error
		if from, to, err = dateRange(c.period, c.start, c.date, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return read(ctx, func(l *ledger.Ledger) error {
		printMarkdown(renderer.Summary(l.State().Summary(from, to)))
		return nil
	})
}
