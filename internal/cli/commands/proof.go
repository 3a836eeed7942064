package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/fzdarsky/twofa/internal/password"
	"github.com/fzdarsky/twofa/pkg/protocol"
)

// ProofCommand implements the 'proof' command.
type ProofCommand struct{}

// NewProofCommand creates a new proof command instance.
func NewProofCommand() *ProofCommand {
	return &ProofCommand{}
}

type proofOptions struct {
	infoPath string
	password string
}

// proofResult is the check to send with a password-protected call.
type proofResult struct {
	Check string                          `json:"check" yaml:"check"`
	SRP   *protocol.InputCheckPasswordSRP `json:"srp,omitempty" yaml:"srp,omitempty"`
}

// Execute runs the proof command with the provided arguments.
func (c *ProofCommand) Execute(args []string) {
	fs := flag.NewFlagSet("proof", flag.ExitOnError)

	var opts proofOptions
	fs.StringVar(&opts.infoPath, "info", "", "Password info file (YAML or JSON, '-' for stdin)")
	fs.StringVar(&opts.password, "password", "", "Current password (prompts if not provided)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: twofa proof [flags]

Compute the SRP password check (srp_id, A, M1) for the pending check in a
password info document. The info's secure_random is used as the client's
ephemeral secret. When the account has no password the empty check is printed.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Prompt for the password
  twofa proof --info account.yaml

  # Non-interactive with JSON output
  twofa -o json proof --info account.json --password hunter2
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

	if info.HasPassword {
		opts.password, err = passwordOrPrompt(opts.password, "Password")
		if err != nil {
			exitWithError("%v", err)
		}
	}

	if err := c.run(env, info, opts.password); err != nil {
		exitWithError("%v", err)
	}
}

func (c *ProofCommand) run(env *environment, info *protocol.PasswordInfo, currentPassword string) error {
	token := password.NewToken(info, env.checker)

	check, err := token.CheckPasswordFor([]byte(currentPassword))
	if err != nil {
		return fmt.Errorf("failed to compute password check: %w", err)
	}

	result := proofResult{Check: "empty"}
	if srpCheck, ok := check.(*protocol.InputCheckPasswordSRP); ok {
		result = proofResult{Check: "srp", SRP: srpCheck}
		env.logger.Debug("password check computed", map[string]any{"srp_id": srpCheck.SRPID})
	}

	return env.print(result)
}
