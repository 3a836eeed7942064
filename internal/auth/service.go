package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fzdarsky/twofa/internal/logging"
	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
)

const (
	// accountKey identifies the single emulated account in the rate limiter.
	accountKey = "account"

	secureRandomLen = 256
	newSalt1Len     = 8
	newSalt2Len     = 16

	// DefaultGenerator is the generator offered to new accounts.
	DefaultGenerator = 3

	// DefaultPrimeHex is the 2048-bit safe prime offered to new accounts.
	DefaultPrimeHex = "c71caeb9c6b1c9048e6c522f70f13f73980d40238e3e21c14934d037563d930f" +
		"48198a0aa7c14058229493d22530f4dbfa336f6e0ac925139543aed44cce7c37" +
		"20fd51f69458705ac68cd4fe6b6b13abdc9746512969328454f18faf8c595f64" +
		"2477fe96bb2a941d5bcd1d4ac8cc49880708fa9b378e3c4f3a9060bee67cf9a4" +
		"a4a695811051907e162753b56b0f6b410dba74d8a84b2a14b3144e0ef1284754" +
		"fd17ed950d5965b4b9dd46582db1178d169c6bc465b0d6ff9ca3928fef5b9ae4" +
		"e418fc15e83ebea0f87fa9ff5eed70050ded2849f47bf959d956850ce929851f" +
		"0d8115f635b105ee2e4e15d04b2454bf6f4fadf034b10403119cd8e3b92fcc5b"
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// SRPTTL is how long an issued srp_id stays valid.
	SRPTTL time.Duration
	// MaxFailures is the number of failed checks that triggers FLOOD_WAIT.
	MaxFailures int
	// FloodWait is how long the account stays locked.
	FloodWait time.Duration
	// SessionTTL is the lifetime of an authorization.
	SessionTTL time.Duration
	// Random is the source for salts, b and secure_random. Defaults to crypto/rand.
	Random io.Reader
	// State restores a previously saved account. Nil creates a fresh account
	// without a password.
	State *AccountState
	Logger *logging.Logger
}

// Service is an in-memory account service holding one account.
// It is safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	state    AccountState
	random   io.Reader
	store    *SRPStore
	limiter  *RateLimiter
	sessions *SessionManager
	logger   *logging.Logger
}

// NewService creates a service. Call Close to release its background workers.
func NewService(opts Options) (*Service, error) {
	random := opts.Random
	if random == nil {
		random = rand.Reader
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ttl := opts.SRPTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	var state AccountState
	if opts.State != nil {
		if err := opts.State.Validate(); err != nil {
			return nil, fmt.Errorf("invalid account state: %w", err)
		}
		state = cloneState(opts.State)
	} else {
		newAlgo, err := defaultNewAlgo(random)
		if err != nil {
			return nil, err
		}
		state.NewAlgo = newAlgo
	}

	secret := make([]byte, 32)
	if _, err := io.ReadFull(random, secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}

	return &Service{
		state:    state,
		random:   random,
		store:    NewSRPStore(ttl),
		limiter:  NewRateLimiter(opts.MaxFailures, opts.FloodWait),
		sessions: NewSessionManager(secret, opts.SessionTTL),
		logger:   logger,
	}, nil
}

func defaultNewAlgo(r io.Reader) (*protocol.PasswordKdfAlgo, error) {
	p, err := hex.DecodeString(DefaultPrimeHex)
	if err != nil {
		return nil, err
	}

	salt1 := make([]byte, newSalt1Len)
	salt2 := make([]byte, newSalt2Len)
	if _, err := io.ReadFull(r, salt1); err != nil {
		return nil, fmt.Errorf("failed to generate salt1: %w", err)
	}
	if _, err := io.ReadFull(r, salt2); err != nil {
		return nil, fmt.Errorf("failed to generate salt2: %w", err)
	}

	return &protocol.PasswordKdfAlgo{Salt1: salt1, Salt2: salt2, G: DefaultGenerator, P: p}, nil
}

// Close stops the background cleanup workers.
func (s *Service) Close() {
	s.store.Stop()
	s.limiter.Stop()
	s.sessions.Stop()
}

// State returns a copy of the account state for persistence.
func (s *Service) State() *AccountState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := cloneState(&s.state)
	return &state
}

// GetPassword returns the account's password info. When a password is set a
// new check is issued with a fresh srp_id and B.
func (s *Service) GetPassword(ctx context.Context) (*protocol.PasswordInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	secureRandom := make([]byte, secureRandomLen)
	if _, err := io.ReadFull(s.random, secureRandom); err != nil {
		return nil, fmt.Errorf("failed to generate secure_random: %w", err)
	}

	info := &protocol.PasswordInfo{
		NewAlgo:      cloneAlgo(s.state.NewAlgo),
		SecureRandom: secureRandom,
	}

	rec := s.state.Password
	if rec == nil {
		s.logger.Debug("password info issued", map[string]any{"has_password": false})
		return info, nil
	}

	server, err := NewSRPServer(rec.Algorithm.Algorithm(), rec.Verifier, s.random)
	if err != nil {
		return nil, err
	}
	srpID, err := s.store.Store(server)
	if err != nil {
		return nil, err
	}

	info.HasPassword = true
	info.Hint = rec.Hint
	info.CurrentAlgo = cloneAlgo(rec.Algorithm)
	info.SRPB = server.B
	info.SRPID = srpID

	s.logger.Debug("password info issued", map[string]any{"has_password": true, "srp_id": srpID})
	return info, nil
}

// CheckPassword verifies a login proof and returns a new authorization.
func (s *Service) CheckPassword(ctx context.Context, check protocol.InputCheckPassword) (*protocol.Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Password == nil {
		return nil, protocol.NewPasswordMissingError()
	}
	if err := s.authorize(check); err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateSession(accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("password check succeeded")
	return &protocol.Authorization{SessionToken: session.Token, ExpiresAt: session.ExpiresAt}, nil
}

// UpdatePasswordSettings sets, replaces or removes the password. check must
// be the empty check when no password is set and a valid proof otherwise.
// Settings without an algorithm and hash remove the password.
func (s *Service) UpdatePasswordSettings(ctx context.Context, check protocol.InputCheckPassword, settings *protocol.PasswordInputSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if settings == nil {
		return protocol.NewInvalidRequestError("missing settings")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(check); err != nil {
		return err
	}

	if settings.NewAlgorithm == nil && len(settings.NewPasswordHash) == 0 {
		s.state.Password = nil
		s.store.Invalidate()
		s.logger.Info("password removed")
		return nil
	}

	if err := s.validateNewSettings(settings); err != nil {
		return err
	}

	rec, err := NewRecord(settings.NewAlgorithm.Algorithm(), settings.NewPasswordHash, settings.Hint, settings.Email)
	if err != nil {
		return protocol.NewNewSettingsInvalidError(err.Error())
	}

	replaced := s.state.Password != nil
	s.state.Password = rec
	s.store.Invalidate()

	s.logger.Info("password updated", map[string]any{"replaced": replaced, "hint_set": settings.Hint != ""})
	return nil
}

// authorize validates check against the account's password state.
// The caller holds s.mu.
func (s *Service) authorize(check protocol.InputCheckPassword) error {
	if locked, retryAfter, _ := s.limiter.CheckLimit(accountKey); locked {
		return protocol.NewFloodWaitError(FormatRetryAfter(retryAfter))
	}

	switch c := check.(type) {
	case protocol.InputCheckPasswordEmpty:
		if s.state.Password != nil {
			return protocol.NewPasswordAlreadySetError()
		}
		return nil

	case *protocol.InputCheckPasswordSRP:
		if c == nil {
			return protocol.NewInvalidRequestError("missing password check")
		}
		if s.state.Password == nil {
			return protocol.NewPasswordMissingError()
		}

		server := s.store.Retrieve(c.SRPID)
		if server == nil {
			return protocol.NewSRPIDInvalidError(c.SRPID)
		}
		defer server.ClearSecrets()

		if err := server.Verify(c); err != nil {
			s.logger.Warn("password check failed", map[string]any{"srp_id": c.SRPID, "error": err.Error()})
			if lockout := s.limiter.RecordFailure(accountKey); lockout > 0 {
				return protocol.NewFloodWaitError(FormatRetryAfter(lockout))
			}
			return protocol.NewPasswordHashInvalidError()
		}

		s.limiter.RecordSuccess(accountKey)
		return nil

	default:
		return protocol.NewInvalidRequestError(fmt.Sprintf("unsupported password check %T", check))
	}
}

// validateNewSettings checks that the client used the offered template and
// extended salt1 by exactly srp.NewSaltLen bytes.
func (s *Service) validateNewSettings(settings *protocol.PasswordInputSettings) error {
	offered := s.state.NewAlgo
	alg := settings.NewAlgorithm
	if alg == nil {
		return protocol.NewNewSettingsInvalidError("missing new algorithm")
	}

	if alg.G != offered.G || !bytes.Equal(alg.P, offered.P) || !bytes.Equal(alg.Salt2, offered.Salt2) {
		return protocol.NewNewSettingsInvalidError("algorithm does not match the offered parameters")
	}
	if len(alg.Salt1) != len(offered.Salt1)+srp.NewSaltLen || !bytes.HasPrefix(alg.Salt1, offered.Salt1) {
		return protocol.NewNewSaltInvalidError(fmt.Sprintf("salt1 must extend the offered %d bytes by %d bytes", len(offered.Salt1), srp.NewSaltLen))
	}
	if len(settings.NewPasswordHash) != srp.HashLen {
		return protocol.NewNewSettingsInvalidError(fmt.Sprintf("password hash must be %d bytes", srp.HashLen))
	}

	return nil
}

func cloneAlgo(a *protocol.PasswordKdfAlgo) *protocol.PasswordKdfAlgo {
	if a == nil {
		return nil
	}
	return protocol.NewPasswordKdfAlgo(a.Algorithm())
}

func cloneState(in *AccountState) AccountState {
	out := AccountState{NewAlgo: cloneAlgo(in.NewAlgo)}
	if in.Password != nil {
		out.Password = &Record{
			Algorithm: cloneAlgo(in.Password.Algorithm),
			Verifier:  append(protocol.HexBytes(nil), in.Password.Verifier...),
			Hint:      in.Password.Hint,
			Email:     in.Password.Email,
		}
	}
	return out
}
