package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
	"gopkg.in/yaml.v3"
)

// Record is the stored password of an account: the KDF parameters it was
// hashed under and the verifier v = g^x mod p. The password itself and x are
// never stored.
type Record struct {
	Algorithm *protocol.PasswordKdfAlgo `yaml:"algorithm"`
	Verifier  protocol.HexBytes         `yaml:"verifier"`
	Hint      string                    `yaml:"hint,omitempty"`
	Email     string                    `yaml:"email,omitempty"`
}

// NewRecord derives the verifier from the password hash x sent by a client.
func NewRecord(alg srp.Algorithm, hash []byte, hint, email string) (*Record, error) {
	v, err := srp.VerifierFromHash(alg, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to compute verifier: %w", err)
	}
	return &Record{
		Algorithm: protocol.NewPasswordKdfAlgo(alg),
		Verifier:  v,
		Hint:      hint,
		Email:     email,
	}, nil
}

// AccountState is the persistent state of an emulated account.
type AccountState struct {
	// NewAlgo is the template offered for new passwords.
	NewAlgo *protocol.PasswordKdfAlgo `yaml:"new_algo"`
	// Password is nil when no password is set.
	Password *Record `yaml:"password,omitempty"`
}

// LoadAccountState reads the account state from path.
func LoadAccountState(path string) (*AccountState, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read account state: %w", err)
	}

	var state AccountState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse account state: %w", err)
	}

	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid account state %s: %w", path, err)
	}

	return &state, nil
}

// stateGroups validates the groups of loaded states. Restored states usually
// share one group, so validated pairs are remembered.
var stateGroups = srp.NewGroupChecker(srp.WithGroupCache())

// Validate checks that the offered template and the stored password use a
// 256-byte safe-prime group.
func (st *AccountState) Validate() error {
	if st.NewAlgo == nil {
		return fmt.Errorf("new_algo is required")
	}
	if err := stateGroups.Check(st.NewAlgo.G, st.NewAlgo.P); err != nil {
		return fmt.Errorf("new_algo: %w", err)
	}

	if st.Password == nil {
		return nil
	}
	if st.Password.Algorithm == nil || len(st.Password.Verifier) == 0 {
		return fmt.Errorf("password requires algorithm and verifier")
	}
	if err := stateGroups.Check(st.Password.Algorithm.G, st.Password.Algorithm.P); err != nil {
		return fmt.Errorf("password algorithm: %w", err)
	}
	if len(st.Password.Verifier) > srp.PrimeLen {
		return fmt.Errorf("password verifier is %d bytes, want at most %d", len(st.Password.Verifier), srp.PrimeLen)
	}
	return nil
}

// SaveAccountState writes the state to path with owner-only permissions.
func SaveAccountState(path string, state *AccountState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal account state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create account state directory: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write account state: %w", err)
	}

	return nil
}
