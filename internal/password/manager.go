package password

//go:generate go tool mockgen -destination=mock_service.go -package=password github.com/fzdarsky/twofa/internal/password AccountService

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fzdarsky/twofa/internal/logging"
	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
)

// AccountService is the part of the account API used by the password flows.
type AccountService interface {
	// GetPassword returns the current password state and, when a password
	// is set, a fresh pending check.
	GetPassword(ctx context.Context) (*protocol.PasswordInfo, error)
	// CheckPassword verifies a login proof.
	CheckPassword(ctx context.Context, check protocol.InputCheckPassword) (*protocol.Authorization, error)
	// UpdatePasswordSettings sets, replaces or removes the password.
	UpdatePasswordSettings(ctx context.Context, check protocol.InputCheckPassword, settings *protocol.PasswordInputSettings) error
}

// Manager runs the password flows against an AccountService.
type Manager struct {
	service AccountService
	checker *srp.GroupChecker
	logger  *logging.Logger
}

// NewManager creates a manager. A nil checker uses the default group
// checker and a nil logger discards output.
func NewManager(service AccountService, checker *srp.GroupChecker, logger *logging.Logger) *Manager {
	if checker == nil {
		checker = srp.NewGroupChecker()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{service: service, checker: checker, logger: logger}
}

// PasswordInfo fetches the account's password state.
func (m *Manager) PasswordInfo(ctx context.Context) (*Token, error) {
	info, err := m.service.GetPassword(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get password info: %w", err)
	}
	return NewToken(info, m.checker), nil
}

// EnablePassword sets the first password of an account.
func (m *Manager) EnablePassword(ctx context.Context, newPassword []byte, hint, email string) error {
	log := m.begin("enable")

	token, err := m.PasswordInfo(ctx)
	if err != nil {
		return m.fail(log, err)
	}
	if token.HasPassword() {
		return m.fail(log, fmt.Errorf("%w: a password is already set", srp.ErrPreconditionViolation))
	}

	settings, err := m.newSettings(ctx, token, newPassword, hint, email)
	if err != nil {
		return m.fail(log, err)
	}

	if err := m.service.UpdatePasswordSettings(ctx, protocol.InputCheckPasswordEmpty{}, settings); err != nil {
		return m.fail(log, fmt.Errorf("failed to set password: %w", err))
	}

	log.Info("password enabled", map[string]any{"hint_set": hint != ""})
	return nil
}

// ChangePassword replaces the password. The proof for currentPassword is
// sent together with the new settings.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword []byte, hint, email string) error {
	log := m.begin("change")

	token, err := m.PasswordInfo(ctx)
	if err != nil {
		return m.fail(log, err)
	}
	if !token.HasPassword() {
		return m.fail(log, fmt.Errorf("%w: no password is set", srp.ErrPreconditionViolation))
	}

	check, err := m.loginProof(ctx, token, currentPassword)
	if err != nil {
		return m.fail(log, err)
	}

	settings, err := m.newSettings(ctx, token, newPassword, hint, email)
	if err != nil {
		return m.fail(log, err)
	}

	if err := m.service.UpdatePasswordSettings(ctx, check, settings); err != nil {
		return m.fail(log, fmt.Errorf("failed to change password: %w", err))
	}

	log.Info("password changed", map[string]any{"srp_id": check.SRPID})
	return nil
}

// RemovePassword clears the password after proving currentPassword.
func (m *Manager) RemovePassword(ctx context.Context, currentPassword []byte) error {
	log := m.begin("remove")

	token, err := m.PasswordInfo(ctx)
	if err != nil {
		return m.fail(log, err)
	}
	if !token.HasPassword() {
		return m.fail(log, fmt.Errorf("%w: no password is set", srp.ErrPreconditionViolation))
	}

	check, err := m.loginProof(ctx, token, currentPassword)
	if err != nil {
		return m.fail(log, err)
	}

	if err := m.service.UpdatePasswordSettings(ctx, check, &protocol.PasswordInputSettings{}); err != nil {
		return m.fail(log, fmt.Errorf("failed to remove password: %w", err))
	}

	log.Info("password removed", map[string]any{"srp_id": check.SRPID})
	return nil
}

// CheckPassword verifies password against the account and returns the
// resulting authorization.
func (m *Manager) CheckPassword(ctx context.Context, password []byte) (*protocol.Authorization, error) {
	log := m.begin("check")

	token, err := m.PasswordInfo(ctx)
	if err != nil {
		return nil, m.fail(log, err)
	}
	if !token.HasPassword() {
		return nil, m.fail(log, fmt.Errorf("%w: no password is set", srp.ErrPreconditionViolation))
	}

	check, err := m.loginProof(ctx, token, password)
	if err != nil {
		return nil, m.fail(log, err)
	}

	authz, err := m.service.CheckPassword(ctx, check)
	if err != nil {
		return nil, m.fail(log, fmt.Errorf("password check rejected: %w", err))
	}

	log.Info("password verified", map[string]any{"srp_id": check.SRPID})
	return authz, nil
}

func (m *Manager) loginProof(ctx context.Context, token *Token, password []byte) (*protocol.InputCheckPasswordSRP, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: current password is required", srp.ErrPreconditionViolation)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return token.BuildLoginProof(password)
}

func (m *Manager) newSettings(ctx context.Context, token *Token, password []byte, hint, email string) (*protocol.PasswordInputSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	material, err := token.BuildNewPasswordMaterial(password)
	if err != nil {
		return nil, err
	}

	return &protocol.PasswordInputSettings{
		NewAlgorithm:    protocol.NewPasswordKdfAlgo(material.Algorithm),
		NewPasswordHash: material.Hash,
		Hint:            hint,
		Email:           email,
	}, nil
}

func (m *Manager) begin(op string) *logging.ContextLogger {
	log := m.logger.WithFields(map[string]any{
		"op":    op,
		"op_id": uuid.New().String(),
	})
	log.Debug("password operation started")
	return log
}

func (m *Manager) fail(log *logging.ContextLogger, err error) error {
	log.Warn("password operation failed", map[string]any{"error": err.Error()})
	return err
}
