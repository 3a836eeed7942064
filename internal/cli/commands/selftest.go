package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fzdarsky/twofa/internal/auth"
	"github.com/fzdarsky/twofa/internal/password"
	"github.com/fzdarsky/twofa/pkg/protocol"
)

const (
	defaultSelfTestPassword    = "selftest-password"
	defaultSelfTestNewPassword = "selftest-rotated"
)

var errSelfTestFailed = errors.New("selftest failed")

// SelfTestCommand implements the 'selftest' command.
type SelfTestCommand struct{}

// NewSelfTestCommand creates a new selftest command instance.
func NewSelfTestCommand() *SelfTestCommand {
	return &SelfTestCommand{}
}

type selfTestOptions struct {
	password    string
	newPassword string
	statePath   string
}

type selfTestStep struct {
	Name     string `json:"name" yaml:"name"`
	OK       bool   `json:"ok" yaml:"ok"`
	Duration string `json:"duration" yaml:"duration"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type selfTestReport struct {
	Passed bool           `json:"passed" yaml:"passed"`
	Steps  []selfTestStep `json:"steps" yaml:"steps"`
}

// Execute runs the selftest command with the provided arguments.
func (c *SelfTestCommand) Execute(args []string) {
	fs := flag.NewFlagSet("selftest", flag.ExitOnError)

	var opts selfTestOptions
	fs.StringVar(&opts.password, "password", "", "Account password (default for a fresh account: "+defaultSelfTestPassword+")")
	fs.StringVar(&opts.newPassword, "new-password", defaultSelfTestNewPassword, "Temporary password used for the change step")
	fs.StringVar(&opts.statePath, "state", "", "Account state file to load and save (in-memory if not set)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: twofa selftest [flags]

Run the password flows against an in-process account service:
enable, check, change, check, change back, check, and a rejected check with
a wrong password. With --state the account is loaded from and saved to a
YAML file, so a password set in an earlier run must be given.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Run against a fresh in-memory account
  twofa selftest

  # Keep the account between runs
  twofa selftest --state ./account.yaml --password hunter2
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	env, err := loadEnvironment()
	if err != nil {
		exitWithError("failed to load configuration: %v", err)
	}

	state, err := loadSelfTestState(opts.statePath)
	if err != nil {
		exitWithError("%v", err)
	}

	if opts.password == "" {
		if state != nil && state.Password != nil {
			opts.password, err = passwordOrPrompt("", "Password")
			if err != nil {
				exitWithError("%v", err)
			}
		} else {
			opts.password = defaultSelfTestPassword
		}
	}

	if err := c.run(context.Background(), env, state, opts); err != nil {
		exitWithError("%v", err)
	}
}

// loadSelfTestState loads the state file if it exists.
func loadSelfTestState(path string) (*auth.AccountState, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return auth.LoadAccountState(path)
}

func (c *SelfTestCommand) run(ctx context.Context, env *environment, state *auth.AccountState, opts selfTestOptions) error {
	if opts.password == "" || opts.newPassword == "" {
		return fmt.Errorf("passwords must not be empty")
	}
	if opts.password == opts.newPassword {
		return fmt.Errorf("--new-password must differ from --password")
	}

	svc, err := c.newService(env, state)
	if err != nil {
		return err
	}
	defer svc.Close()

	mgr := password.NewManager(svc, env.checker, env.logger)
	current := []byte(opts.password)
	next := []byte(opts.newPassword)
	hint := env.cfg.SelfTest.Hint

	report := selfTestReport{Passed: true}
	step := func(name string, fn func() error) bool {
		start := time.Now()
		err := fn()
		res := selfTestStep{Name: name, OK: err == nil, Duration: time.Since(start).Round(time.Millisecond).String()}
		if err != nil {
			res.Error = err.Error()
			report.Passed = false
		}
		report.Steps = append(report.Steps, res)
		return err == nil
	}

	check := func(pw []byte) func() error {
		return func() error {
			_, err := mgr.CheckPassword(ctx, pw)
			return err
		}
	}

	ok := true
	if state == nil || state.Password == nil {
		ok = step("enable", func() error { return mgr.EnablePassword(ctx, current, hint, "") })
	}
	ok = ok && step("check", check(current))
	ok = ok && step("change", func() error { return mgr.ChangePassword(ctx, current, next, hint, "") })
	ok = ok && step("check_new", check(next))
	ok = ok && step("change_back", func() error { return mgr.ChangePassword(ctx, next, current, hint, "") })
	ok = ok && step("check_restored", check(current))
	if ok {
		step("reject_wrong", func() error {
			_, err := mgr.CheckPassword(ctx, next)
			if protocol.HasCode(err, protocol.ErrCodePasswordHashInvalid) {
				return nil
			}
			if err == nil {
				return fmt.Errorf("wrong password was accepted")
			}
			return fmt.Errorf("unexpected error: %w", err)
		})
	}

	if opts.statePath != "" {
		if err := auth.SaveAccountState(opts.statePath, svc.State()); err != nil {
			return err
		}
		env.logger.Info("account state saved", map[string]any{"path": opts.statePath})
	}

	if err := env.print(report); err != nil {
		return err
	}
	if !report.Passed {
		return errSelfTestFailed
	}
	return nil
}

func (c *SelfTestCommand) newService(env *environment, state *auth.AccountState) (*auth.Service, error) {
	ttl, err := env.cfg.GetSRPTTL()
	if err != nil {
		return nil, err
	}
	floodWait, err := env.cfg.GetFloodWait()
	if err != nil {
		return nil, err
	}

	return auth.NewService(auth.Options{
		SRPTTL:      ttl,
		MaxFailures: env.cfg.SelfTest.MaxFailures,
		FloodWait:   floodWait,
		State:       state,
		Logger:      env.logger,
	})
}
