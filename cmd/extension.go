package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/subcommands"
)

// Environment variables read by pci, and passed to its extensions.
const (
	EnvDraft     = "PCI_DRAFT"
	EnvCatalog   = "PCI_CATALOG"
	EnvAPIURL    = "PCI_API_URL"
	EnvAPIToken  = "PCI_API_TOKEN"
	EnvPortfolio = "PCI_PORTFOLIO"
	EnvVerbose   = "PCI_VERBOSE"
)

// Registered reports whether 'name' is a command of 'c'.
func Registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// RunExtension attempts to find and execute an external pci-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The effective global settings are passed to the extension as environment
// variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "pci-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvDraft+"="+setting(draftPath, EnvDraft, defaultDraft),
		EnvCatalog+"="+setting(catalogName, EnvCatalog, ""),
		EnvAPIURL+"="+setting(apiURL, EnvAPIURL, ""),
		EnvAPIToken+"="+setting(apiToken, EnvAPIToken, ""),
		EnvVerbose+"="+strconv.FormatBool(*verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
