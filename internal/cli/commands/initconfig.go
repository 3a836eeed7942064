package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fzdarsky/twofa/internal/cli/clicontext"
	"github.com/fzdarsky/twofa/internal/config"
)

// InitConfigCommand implements the 'init-config' command.
type InitConfigCommand struct{}

// NewInitConfigCommand creates a new init-config command instance.
func NewInitConfigCommand() *InitConfigCommand {
	return &InitConfigCommand{}
}

// Execute runs the init-config command with the provided arguments.
func (c *InitConfigCommand) Execute(args []string) {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)

	force := fs.Bool("force", false, "Overwrite an existing config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: twofa init-config [flags]

Write the default configuration to the config file (the global --config path
or the user config directory).

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	if err := c.run(clicontext.Get().ConfigPath, *force, os.Stderr); err != nil {
		exitWithError("%v", err)
	}
}

func (c *InitConfigCommand) run(path string, force bool, w io.Writer) error {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	written, err := config.Default().Save(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Configuration written to %s\n", written)
	return nil
}
