package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger/cmd"
	"github.com/jelsonhosly/ledger/internal/config"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	// exits when invoked by the shell for completion, or to install it.
	cmd.Completion(commander).Complete("lgr")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	flag.Parse()
	ctx := cmd.Configure(context.Background(), cfg)
	os.Exit(int(commander.Execute(ctx)))
}
