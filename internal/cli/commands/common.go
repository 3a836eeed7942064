// Package commands provides CLI command implementations for the twofa tool.
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fzdarsky/twofa/internal/cli/clicontext"
	"github.com/fzdarsky/twofa/internal/cli/output"
	"github.com/fzdarsky/twofa/internal/config"
	"github.com/fzdarsky/twofa/internal/logging"
	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
)

// environment is the resolved configuration shared by all commands.
type environment struct {
	cfg     *config.Config
	format  output.Format
	logger  *logging.Logger
	checker *srp.GroupChecker
	stdout  io.Writer
}

// loadEnvironment loads the configuration and applies the global flags.
func loadEnvironment() (*environment, error) {
	global := clicontext.Get()

	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.ApplyFlags(global.LogLevel, global.Output)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return newEnvironment(cfg, os.Stdout, os.Stderr)
}

// newEnvironment builds the environment for cfg. Log entries go to logOut so
// they never mix with command output.
func newEnvironment(cfg *config.Config, stdout, logOut io.Writer) (*environment, error) {
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logFormat, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level, logFormat)
	logger.SetOutput(logOut, logOut)

	return &environment{
		cfg:     cfg,
		format:  format,
		logger:  logger,
		checker: newGroupChecker(cfg.SRP),
		stdout:  stdout,
	}, nil
}

// newGroupChecker creates a group checker from the SRP settings.
func newGroupChecker(s config.SRPSettings) *srp.GroupChecker {
	opts := []srp.GroupCheckerOption{
		srp.WithPrimalityTester(srp.ProbablyPrimeTester{Rounds: s.PrimeRounds}),
	}
	if s.CacheGroups {
		opts = append(opts, srp.WithGroupCache())
	}
	return srp.NewGroupChecker(opts...)
}

// print formats data in the configured output format.
func (e *environment) print(data any) error {
	return output.Write(e.stdout, data, e.format)
}

// readPasswordInfo reads a password info fixture in YAML or JSON.
func readPasswordInfo(path string) (*protocol.PasswordInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("--info is required")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 - path is supplied by the user
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read password info: %w", err)
	}

	return protocol.DecodePasswordInfo(data)
}

// passwordOrPrompt returns value if set and otherwise asks for it on the
// terminal. Input that is not a terminal is read line by line.
func passwordOrPrompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}

	fd := int(os.Stdin.Fd()) // #nosec G115 - file descriptors fit in int
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	password, err := term.ReadPassword(fd)
	fmt.Fprintf(os.Stderr, "\n")
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(password), nil
}

// exitWithError prints an error message to stderr and exits with status 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
