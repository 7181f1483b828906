package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// ledgerOptions returns the options derived from the settings.
func ledgerOptions(ctx context.Context) []ledger.Option {
	return []ledger.Option{
		ledger.WithLogger(logger.FromContext(ctx)),
		ledger.WithHistoryLimit(settings.HistoryLimit),
		ledger.WithMainCurrency(ledger.NewCurrency(settings.MainCurrency, decimal.NewFromInt(1))),
	}
}

// openLedger decodes the workspace file. A missing file is an empty ledger.
func openLedger(ctx context.Context) (*ledger.Ledger, error) {
	log := logger.FromContext(ctx)
	f, err := os.Open(settings.File)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("file", settings.File).Msg("workspace does not exist, starting an empty ledger")
		return ledger.NewLedger(ledgerOptions(ctx)...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening workspace %q: %w", settings.File, err)
	}
	defer f.Close()

	l, err := ledger.DecodeLedger(f, ledgerOptions(ctx)...)
	if err != nil {
		return nil, fmt.Errorf("error decoding workspace %q: %w", settings.File, err)
	}
	log.Debug().Str("file", settings.File).Int("snapshots", l.History().Len()).Msg("workspace loaded")
	return l, nil
}

// saveLedger writes the ledger to the workspace file. The file is replaced
// atomically so that a failed write never loses the previous session.
func saveLedger(ctx context.Context, l *ledger.Ledger) error {
	dir, base := filepath.Split(settings.File)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("error creating workspace %q: %w", settings.File, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := ledger.EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return fmt.Errorf("error encoding workspace %q: %w", settings.File, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing workspace %q: %w", settings.File, err)
	}
	if err := os.Rename(tmp.Name(), settings.File); err != nil {
		return fmt.Errorf("error replacing workspace %q: %w", settings.File, err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("file", settings.File).Int("snapshots", l.History().Len()).Msg("workspace saved")
	return nil
}

// read opens the workspace and runs fn on it.
func read(ctx context.Context, fn func(l *ledger.Ledger) error) subcommands.ExitStatus {
	l, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := fn(l); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// edit opens the workspace, runs fn on it and saves it back when fn succeeds.
func edit(ctx context.Context, fn func(l *ledger.Ledger) error) subcommands.ExitStatus {
	l, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := fn(l); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ctx, l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseAmount parses a decimal flag value.
func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid -%s %q: %w", name, value, ledger.ErrInvalid)
	}
	return d, nil
}
