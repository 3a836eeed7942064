// Package password builds password checks and new password settings from the
// account service's password info, and drives the set, change and check flows.
package password

import (
	"fmt"

	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
)

// Token wraps the password info returned by the account service. It is not
// modified after construction and is safe for concurrent use.
type Token struct {
	info    protocol.PasswordInfo
	checker *srp.GroupChecker
}

// NewToken creates a token for info. A nil checker uses the default group
// checker.
func NewToken(info *protocol.PasswordInfo, checker *srp.GroupChecker) *Token {
	if checker == nil {
		checker = srp.NewGroupChecker()
	}
	return &Token{info: *info, checker: checker}
}

// HasPassword reports whether the account has a password.
func (t *Token) HasPassword() bool {
	return t.info.HasPassword
}

// Hint returns the password hint, if any.
func (t *Token) Hint() string {
	return t.info.Hint
}

// SRPID returns the identifier of the pending check.
func (t *Token) SRPID() int64 {
	return t.info.SRPID
}

// CurrentAlgorithm returns the KDF parameters of the current password.
// ok is false if the service did not send them.
func (t *Token) CurrentAlgorithm() (alg srp.Algorithm, ok bool) {
	if t.info.CurrentAlgo == nil {
		return srp.Algorithm{}, false
	}
	return t.info.CurrentAlgo.Algorithm(), true
}

// NewAlgorithm returns the KDF parameters for a new password.
// ok is false if the service did not send them.
func (t *Token) NewAlgorithm() (alg srp.Algorithm, ok bool) {
	if t.info.NewAlgo == nil {
		return srp.Algorithm{}, false
	}
	return t.info.NewAlgo.Algorithm(), true
}

// BuildLoginProof computes the SRP check for currentPassword against the
// pending srp_id. The server's secure_random is used as the client secret a.
func (t *Token) BuildLoginProof(currentPassword []byte) (*protocol.InputCheckPasswordSRP, error) {
	if !t.info.HasPassword {
		return nil, fmt.Errorf("%w: no password is set", srp.ErrPreconditionViolation)
	}

	alg, ok := t.CurrentAlgorithm()
	if !ok {
		return nil, fmt.Errorf("%w: current algorithm", srp.ErrMissingServerValue)
	}
	if len(t.info.SRPB) == 0 {
		return nil, fmt.Errorf("%w: srp_B", srp.ErrMissingServerValue)
	}
	if len(t.info.SecureRandom) == 0 {
		return nil, fmt.Errorf("%w: secure_random", srp.ErrMissingServerValue)
	}

	if err := t.checker.Check(alg.G, alg.P); err != nil {
		return nil, fmt.Errorf("current algorithm: %w", err)
	}

	proof, err := srp.Calculate2FA(alg.Salt1, alg.Salt2, alg.G, alg.P, t.info.SRPB, t.info.SecureRandom, currentPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to compute password proof: %w", err)
	}

	return &protocol.InputCheckPasswordSRP{
		SRPID: t.info.SRPID,
		A:     proof.A,
		M1:    proof.M1,
	}, nil
}

// BuildNewPasswordMaterial extends the new algorithm's salt and hashes
// newPassword under it.
func (t *Token) BuildNewPasswordMaterial(newPassword []byte) (*srp.NewPasswordMaterial, error) {
	alg, ok := t.NewAlgorithm()
	if !ok {
		return nil, fmt.Errorf("%w: new algorithm", srp.ErrMissingServerValue)
	}

	material, err := srp.NewPasswordHash(alg, newPassword, nil, t.checker)
	if err != nil {
		return nil, fmt.Errorf("new algorithm: %w", err)
	}
	return material, nil
}

// CheckPasswordFor returns the check to send with a password-protected call.
// Without a password set and without currentPassword it is the empty check.
func (t *Token) CheckPasswordFor(currentPassword []byte) (protocol.InputCheckPassword, error) {
	if !t.info.HasPassword {
		if len(currentPassword) == 0 {
			return protocol.InputCheckPasswordEmpty{}, nil
		}
		return nil, fmt.Errorf("%w: a password was given but none is set", srp.ErrPreconditionViolation)
	}
	if len(currentPassword) == 0 {
		return nil, fmt.Errorf("%w: current password is required", srp.ErrPreconditionViolation)
	}

	check, err := t.BuildLoginProof(currentPassword)
	if err != nil {
		return nil, err
	}
	return check, nil
}
