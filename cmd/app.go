// Package cmd implements pci, the command line console to review and commit
// statement imports.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ingestCmd{}, "import")
	c.Register(&reviewCmd{}, "import")
	c.Register(&commitCmd{}, "import")
	c.Register(&cancelCmd{}, "import")

	c.Register(&addCmd{}, "edit")
	c.Register(&editCmd{}, "edit")
	c.Register(&rmCmd{}, "edit")
	c.Register(&selectCmd{}, "edit")

	c.Register(&reconcileCmd{}, "catalog")
	c.Register(&watchCmd{}, "catalog")
	c.Register(&catalogCmd{}, "catalog")
	c.Register(&providersCmd{}, "catalog")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var draftPath = flag.String("draft", "", "Path to the import draft: a folder, or a .db file for sqlite. Defaults to $"+EnvDraft+" or "+defaultDraft)
var catalogName = flag.String("catalog", "", "Asset catalog: a .jsonl file, 'api' for the portfolio service, or a postgres:// url. Defaults to $"+EnvCatalog)
var apiURL = flag.String("api-url", "", "Portfolio service url. Defaults to $"+EnvAPIURL)
var apiToken = flag.String("api-token", "", "Portfolio service bearer token. Defaults to $"+EnvAPIToken)
var verbose = flag.Bool("v", false, "Log the requests to the portfolio service")
var envFile = flag.String("env-file", ".env", "File of environment variables loaded at startup, if it exists")

const defaultDraft = ".pci-draft"

var loadEnv = sync.OnceFunc(func() {
	err := godotenv.Load(*envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cannot load %s: %v", *envFile, err)
	}
})

// setting returns the flag value, or else the environment variable 'env', or else 'def'.
// Variables defined in the env file are visible, but never override the real environment.
func setting(value *string, env, def string) string {
	if *value != "" {
		return *value
	}
	loadEnv()
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// portfolioID returns the target portfolio from the flag value, or the environment.
func portfolioID(value int64) (int64, error) {
	if value != 0 {
		return value, nil
	}
	loadEnv()
	v := os.Getenv(EnvPortfolio)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid $%s %q: %w", EnvPortfolio, v, err)
	}
	return id, nil
}

// printMarkdown renders markdown for the terminal, or prints it verbatim if
// it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
