package cmd

import (
	"flag"

	"github.com/etnz/importer"
	"github.com/etnz/importer/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands of 'c' and of the
// global flags.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: flags(fs), Args: args(cmd.Name())}
	})
	return root
}

// flags predicts values of the flags of 'fs'.
func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "mapping", "env-file", "draft", "catalog":
			m[f.Name] = predict.Files("*")
		case string(importer.FieldType):
			m[f.Name] = types()
		default:
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				m[f.Name] = predict.Nothing
			} else {
				m[f.Name] = predict.Something
			}
		}
	})
	return m
}

// args predicts the positional arguments of a command.
func args(name string) complete.Predictor {
	switch name {
	case "ingest":
		return predict.Files("*")
	case "edit":
		fields := make(predict.Set, len(importer.Fields))
		for i, f := range importer.Fields {
			fields[i] = string(f)
		}
		return fields
	case "topic":
		topics, _ := docs.GetAllTopics()
		return predict.Set(topics)
	}
	return predict.Nothing
}

func types() predict.Set {
	set := make(predict.Set, len(importer.TransactionTypes))
	for i, t := range importer.TransactionTypes {
		set[i] = string(t)
	}
	return set
}
