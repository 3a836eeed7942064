package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/fzdarsky/twofa/internal/password"
	"github.com/fzdarsky/twofa/pkg/protocol"
)

// NewHashCommand implements the 'new-hash' command.
type NewHashCommand struct{}

// NewNewHashCommand creates a new new-hash command instance.
func NewNewHashCommand() *NewHashCommand {
	return &NewHashCommand{}
}

type newHashOptions struct {
	infoPath string
	password string
	hint     string
	email    string
}

// Execute runs the new-hash command with the provided arguments.
func (c *NewHashCommand) Execute(args []string) {
	fs := flag.NewFlagSet("new-hash", flag.ExitOnError)

	var opts newHashOptions
	fs.StringVar(&opts.infoPath, "info", "", "Password info file (YAML or JSON, '-' for stdin)")
	fs.StringVar(&opts.password, "password", "", "New password (prompts if not provided)")
	fs.StringVar(&opts.hint, "hint", "", "Password hint")
	fs.StringVar(&opts.email, "email", "", "Recovery email")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: twofa new-hash [flags]

Compute new password settings from the new_algo of a password info document.
salt1 is extended with 32 fresh random bytes and the password hash is computed
under the extended salt.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Prompt for the new password
  twofa new-hash --info account.yaml --hint "favourite pet"
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	env, err := loadEnvironment()
	if err != nil {
		exitWithError("failed to load configuration: %v", err)
	}

	info, err := readPasswordInfo(opts.infoPath)
	if err != nil {
		exitWithError("%v", err)
	}

	opts.password, err = passwordOrPrompt(opts.password, "New password")
	if err != nil {
		exitWithError("%v", err)
	}

	if err := c.run(env, info, opts); err != nil {
		exitWithError("%v", err)
	}
}

func (c *NewHashCommand) run(env *environment, info *protocol.PasswordInfo, opts newHashOptions) error {
	if opts.password == "" {
		return fmt.Errorf("new password must not be empty")
	}

	token := password.NewToken(info, env.checker)
	material, err := token.BuildNewPasswordMaterial([]byte(opts.password))
	if err != nil {
		return fmt.Errorf("failed to compute password hash: %w", err)
	}

	env.logger.Debug("new password hash computed", map[string]any{"salt1_len": len(material.Algorithm.Salt1)})

	return env.print(&protocol.PasswordInputSettings{
		NewAlgorithm:    protocol.NewPasswordKdfAlgo(material.Algorithm),
		NewPasswordHash: material.Hash,
		Hint:            opts.hint,
		Email:           opts.email,
	})
}
