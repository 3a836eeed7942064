package protocol

import (
	"time"

	"github.com/fzdarsky/twofa/pkg/srp"
)

// PasswordKdfAlgo is the wire form of the password KDF parameters.
type PasswordKdfAlgo struct {
	Salt1 HexBytes `json:"salt1" yaml:"salt1"`
	Salt2 HexBytes `json:"salt2" yaml:"salt2"`
	G     int32    `json:"g" yaml:"g"`
	P     HexBytes `json:"p" yaml:"p"`
}

// NewPasswordKdfAlgo converts an srp.Algorithm to its wire form.
func NewPasswordKdfAlgo(alg srp.Algorithm) *PasswordKdfAlgo {
	c := alg.Clone()
	return &PasswordKdfAlgo{Salt1: c.Salt1, Salt2: c.Salt2, G: c.G, P: c.P}
}

// Algorithm returns the parameters as an srp.Algorithm.
func (a *PasswordKdfAlgo) Algorithm() srp.Algorithm {
	return srp.Algorithm{Salt1: a.Salt1, Salt2: a.Salt2, G: a.G, P: a.P}.Clone()
}

// PasswordInfo is the account service's answer to a password state query.
// When HasPassword is set, CurrentAlgo, SRPB and SRPID describe the pending
// check. NewAlgo is used to set or replace the password.
type PasswordInfo struct {
	HasPassword  bool             `json:"has_password" yaml:"has_password"`
	Hint         string           `json:"hint,omitempty" yaml:"hint,omitempty"`
	CurrentAlgo  *PasswordKdfAlgo `json:"current_algo,omitempty" yaml:"current_algo,omitempty"`
	NewAlgo      *PasswordKdfAlgo `json:"new_algo,omitempty" yaml:"new_algo,omitempty"`
	SRPB         HexBytes         `json:"srp_B,omitempty" yaml:"srp_B,omitempty"`
	SRPID        int64            `json:"srp_id,omitempty" yaml:"srp_id,omitempty"`
	SecureRandom HexBytes         `json:"secure_random,omitempty" yaml:"secure_random,omitempty"`
}

// InputCheckPassword is a password check sent to the account service. It is
// either *InputCheckPasswordSRP or InputCheckPasswordEmpty.
type InputCheckPassword interface {
	isInputCheckPassword()
}

// InputCheckPasswordEmpty is sent when the account has no password.
type InputCheckPasswordEmpty struct{}

func (InputCheckPasswordEmpty) isInputCheckPassword() {}

// InputCheckPasswordSRP carries the SRP proof for a pending check.
type InputCheckPasswordSRP struct {
	SRPID int64    `json:"srp_id" yaml:"srp_id"`
	A     HexBytes `json:"A" yaml:"A"`
	M1    HexBytes `json:"M1" yaml:"M1"`
}

func (*InputCheckPasswordSRP) isInputCheckPassword() {}

// PasswordInputSettings are the new password settings. Hint and Email are
// passed through to the service untouched.
type PasswordInputSettings struct {
	NewAlgorithm    *PasswordKdfAlgo `json:"new_algo,omitempty" yaml:"new_algo,omitempty"`
	NewPasswordHash HexBytes         `json:"new_password_hash,omitempty" yaml:"new_password_hash,omitempty"`
	Hint            string           `json:"hint,omitempty" yaml:"hint,omitempty"`
	Email           string           `json:"email,omitempty" yaml:"email,omitempty"`
}

// Authorization is returned by a successful password check.
type Authorization struct {
	SessionToken string    `json:"session_token" yaml:"session_token"`
	ExpiresAt    time.Time `json:"expires_at" yaml:"expires_at"`
}
