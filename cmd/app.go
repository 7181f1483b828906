// Package cmd implements the lgr CLI application to keep a personal ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger/internal/config"
	"github.com/jelsonhosly/ledger/internal/logger"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var workspaceFile = flag.String("file", "", "Path to the workspace file. Defaults to $"+config.EnvFile+" or ledger.json")
var logLevel = flag.String("log", "", "Log level (debug, info, warn, error). Defaults to $"+config.EnvLogLevel+" or warn")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal")

// settings is the configuration after the global flags have been applied.
var settings = config.Default()

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&topicCmd{}, "")
	c.Register(&initCmd{}, "")

	c.Register(&accountsCmd{}, "accounts")
	c.Register(&accountAddCmd{}, "accounts")
	c.Register(&accountEditCmd{}, "accounts")
	c.Register(&accountRmCmd{}, "accounts")
	c.Register(&checkCmd{}, "accounts")

	c.Register(&txCmd{}, "transactions")
	c.Register(&txAddCmd{}, "transactions")
	c.Register(&txEditCmd{}, "transactions")
	c.Register(&txRmCmd{}, "transactions")
	c.Register(&txToggleCmd{}, "transactions")
	c.Register(&summaryCmd{}, "transactions")

	c.Register(&categoriesCmd{}, "categories")
	c.Register(&categoryAddCmd{}, "categories")
	c.Register(&categoryEditCmd{}, "categories")
	c.Register(&categoryRmCmd{}, "categories")
	c.Register(&subcategoryAddCmd{}, "categories")
	c.Register(&subcategoryRmCmd{}, "categories")

	c.Register(&currenciesCmd{}, "currencies")
	c.Register(&currencyAddCmd{}, "currencies")
	c.Register(&currencyEditCmd{}, "currencies")
	c.Register(&currencyRmCmd{}, "currencies")
	c.Register(&currencyMainCmd{}, "currencies")
	c.Register(&rateCmd{}, "currencies")

	c.Register(&historyCmd{}, "history")
	c.Register(&undoCmd{}, "history")
	c.Register(&redoCmd{}, "history")
	c.Register(&restoreCmd{}, "history")
	c.Register(&clearHistoryCmd{}, "history")

	c.Register(&exportCmd{}, "data")
	c.Register(&importCmd{}, "data")
	c.Register(&queryCmd{}, "data")
}

// Configure applies the global flags over cfg and returns a context carrying
// the application logger. It must be called after the flags are parsed.
func Configure(ctx context.Context, cfg *config.Config) context.Context {
	settings = *cfg
	if *workspaceFile != "" {
		settings.File = *workspaceFile
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	log := logger.New(settings.LogLevel)
	log.Debug().Str("file", settings.File).Str("main", settings.MainCurrency).Int("limit", settings.HistoryLimit).Msg("configured")
	return logger.WithContext(ctx, log)
}

// printMarkdown renders md for the terminal, or prints it as is with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
