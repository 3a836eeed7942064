// Package main provides the twofa CLI tool for SRP two-factor password checks.
//
// The twofa CLI validates server-supplied groups, computes password checks
// and new password settings from password info documents, and runs the
// password flows against an in-process account service.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fzdarsky/twofa/internal/cli/clicontext"
	"github.com/fzdarsky/twofa/internal/cli/commands"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Parse global flags and extract command
	args, command, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	// Handle special commands
	switch command {
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("twofa version %s\n", version)
		os.Exit(0)
	}

	// Route to command implementations
	switch command {
	case "check-group":
		commands.NewCheckGroupCommand().Execute(args)
	case "proof":
		commands.NewProofCommand().Execute(args)
	case "new-hash":
		commands.NewNewHashCommand().Execute(args)
	case "selftest":
		commands.NewSelfTestCommand().Execute(args)
	case "init-config":
		commands.NewInitConfigCommand().Execute(args)
	case "":
		fmt.Fprintf(os.Stderr, "Error: no command given\n\n")
		printUsage()
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// globalFlags maps each global flag to the setter for its value.
var globalFlags = map[string]func(string){
	"--config":    clicontext.SetConfigPath,
	"-o":          clicontext.SetOutput,
	"--output":    clicontext.SetOutput,
	"--log-level": clicontext.SetLogLevel,
}

// parseGlobalFlags processes global flags and returns remaining args and the command.
// Global flags can appear anywhere in the argument list, as "--flag value" or
// "--flag=value".
// Examples:
//
//	twofa -o json proof --info a.yaml        (before command)
//	twofa proof -o json --info a.yaml        (after command)
//	twofa proof --info a.yaml --output=json  (at the end)
func parseGlobalFlags(args []string) ([]string, string, error) {
	remainingArgs := make([]string, 0, len(args))
	var command string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Check for global flags
		name, value, hasValue := strings.Cut(arg, "=")
		if set, ok := globalFlags[name]; ok {
			if !hasValue {
				if i+1 >= len(args) {
					return nil, "", fmt.Errorf("flag %s requires a value", name)
				}
				i++
				value = args[i]
			}
			set(value)
			continue
		}

		// First non-flag argument is the command
		if command == "" && !isFlag(arg) {
			command = arg
			continue
		}

		// Help and version flags before any command act as commands
		if command == "" && isSpecial(arg) {
			command = arg
			continue
		}

		// All other arguments are passed to the command
		remainingArgs = append(remainingArgs, arg)
	}

	return remainingArgs, command, nil
}

// isFlag returns true if the argument looks like a flag (starts with -).
func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func isSpecial(arg string) bool {
	switch arg {
	case "--help", "-h", "--version", "-v":
		return true
	}
	return false
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `twofa - SRP two-factor password tool

Usage:
  twofa <command> [flags]

Available Commands:
  check-group  Validate a safe-prime group (g, p)
  proof        Compute the password check (srp_id, A, M1) for a password info
  new-hash     Compute new password settings for a password info
  selftest     Run the password flows against an in-process account service
  init-config  Write the default configuration file

Global Flags:
  --config <path>       Config file (default: user config dir/twofa/config.yaml)
  -o, --output <fmt>    Output format: yaml or json
  --log-level <level>   Log level: debug, info, warn or error
  --help, -h            Show help information
  --version, -v         Show version information

Examples:
  # Validate the group of a password info fixture
  twofa check-group --info account.yaml

  # Compute the login proof as JSON
  twofa -o json proof --info account.yaml --password hunter2

  # Compute settings for a new password
  twofa new-hash --info account.yaml --hint "favourite pet"

  # Run the self test with debug logging
  twofa --log-level debug selftest

For detailed help on a specific command, run:
  twofa <command> --help

`)
}
