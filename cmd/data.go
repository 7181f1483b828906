package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as a JSON document" }
func (*exportCmd) Usage() string {
	return `lgr export [-o <file>]

  Writes accounts, transactions, categories and currencies as a JSON
  document. The history is not exported.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "-", "Output file, '-' for the standard output.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return read(ctx, func(l *ledger.Ledger) error {
		if c.output == "-" {
			return l.Export(os.Stdout)
		}
		var b bytes.Buffer
		if err := l.Export(&b); err != nil {
			return err
		}
		if err := os.WriteFile(c.output, b.Bytes(), 0644); err != nil {
			return fmt.Errorf("error writing %q: %w", c.output, err)
		}
		a, cat, cur, tx := l.State().Len()
		fmt.Fprintf(os.Stderr, "Exported %d accounts, %d categories, %d currencies and %d transactions to %s\n", a, cat, cur, tx, c.output)
		return nil
	})
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a JSON document" }
func (*importCmd) Usage() string {
	return `lgr import <file>

  Replaces the whole ledger with the document, '-' reads the standard input.
  An invalid document changes nothing. The import can be undone.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one file is required.")
		return subcommands.ExitUsageError
	}
	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		if err := l.Import(r); err != nil {
			return err
		}
		a, cat, cur, tx := l.State().Len()
		fmt.Printf("Imported %d accounts, %d categories, %d currencies and %d transactions\n", a, cat, cur, tx)
		return nil
	})
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "query the exported document with JSONPath" }
func (*queryCmd) Usage() string {
	return `lgr query <jsonpath>

  Evaluates a JSONPath expression on the document 'lgr export' would write,
  and prints the result as JSON.
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one JSONPath expression is required.")
		return subcommands.ExitUsageError
	}
	return read(ctx, func(l *ledger.Ledger) error {
		result, err := query(l.ExportData(), f.Arg(0))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	})
}

// query evaluates path on the generic JSON form of doc.
func query(doc ledger.Document, path string) (any, error) {
	var b bytes.Buffer
	if err := ledger.EncodeDocument(&b, doc); err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(b.Bytes(), &jobj); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return jval, nil
}
