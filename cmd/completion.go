package cmd

import (
	"flag"
	"io"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors suggests values for flags whose values are a closed set.
var flagPredictors = map[string]complete.Predictor{
	"file":  predict.Files("*.json"),
	"log":   predict.Set{"debug", "info", "warn", "error"},
	"o":     predict.Files("*.json"),
	"p":     predict.Set{"day", "week", "month", "quarter", "year"},
	"mode":  predict.Set{"unused", "delete", "move"},
	"unit":  predict.Set{string(ledger.Daily), string(ledger.Weekly), string(ledger.Monthly), string(ledger.Yearly)},
	"paid":  predict.Set{"yes", "no"},
	"type":  predict.Set{"income", "expense", "transfer", "checking", "cash", "credit", "investment", "crypto", "wallet", "loan", "savings", "business", "other"},
	"color": predict.Something,
	"icon":  predict.Something,
}

// Completion describes the commands registered in c, and their flags, for
// shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	c.VisitAll(func(f *flag.Flag) { root.Flags[f.Name] = predictor(f) })

	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictor(f) })
		switch cmd.Name() {
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		case "import":
			sub.Args = predict.Files("*.json")
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func predictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	if p, ok := flagPredictors[f.Name]; ok {
		return p
	}
	return predict.Something
}
