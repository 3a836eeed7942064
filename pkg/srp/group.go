package srp

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"sync"
)

//go:generate go tool mockgen -destination=mock_primality.go -package=srp github.com/fzdarsky/twofa/pkg/srp PrimalityTester

// DefaultPrimeRounds is the Miller-Rabin round count used by NewGroupChecker.
const DefaultPrimeRounds = 20

// PrimalityTester reports whether n is prime. Implementations may be
// probabilistic but must have negligible error.
type PrimalityTester interface {
	IsPrime(n *big.Int) bool
}

// ProbablyPrimeTester tests primality with big.Int.ProbablyPrime, which
// applies Rounds Miller-Rabin tests plus a Baillie-PSW test. It is exact for
// values below 2^64.
type ProbablyPrimeTester struct {
	Rounds int
}

// IsPrime implements PrimalityTester.
func (t ProbablyPrimeTester) IsPrime(n *big.Int) bool {
	rounds := t.Rounds
	if rounds < 1 {
		rounds = DefaultPrimeRounds
	}
	return n.ProbablyPrime(rounds)
}

type groupKey struct {
	g int32
	p [sha256.Size]byte
}

// GroupChecker validates server-supplied (g, p) pairs before any secret is
// derived from them.
type GroupChecker struct {
	tester PrimalityTester

	cacheEnabled bool
	mu           sync.RWMutex
	known        map[groupKey]struct{}
}

// GroupCheckerOption configures a GroupChecker.
type GroupCheckerOption func(*GroupChecker)

// WithPrimalityTester replaces the default primality test.
func WithPrimalityTester(t PrimalityTester) GroupCheckerOption {
	return func(c *GroupChecker) {
		c.tester = t
	}
}

// WithGroupCache makes the checker remember groups that passed validation.
// Only successful checks are cached.
func WithGroupCache() GroupCheckerOption {
	return func(c *GroupChecker) {
		c.cacheEnabled = true
	}
}

// NewGroupChecker creates a checker backed by ProbablyPrimeTester unless an
// option overrides it.
func NewGroupChecker(opts ...GroupCheckerOption) *GroupChecker {
	c := &GroupChecker{
		tester: ProbablyPrimeTester{Rounds: DefaultPrimeRounds},
		known:  make(map[groupKey]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultChecker = NewGroupChecker()

// IsValidGroup reports whether (g, p) passes the full group check using the
// default checker.
func IsValidGroup(g int32, p []byte) bool {
	return defaultChecker.Check(g, p) == nil
}

// IsValidGroup reports whether Check returns nil.
func (c *GroupChecker) IsValidGroup(g int32, p []byte) bool {
	return c.Check(g, p) == nil
}

// Check verifies that p is a 256-byte safe prime and that g generates a
// subgroup of the expected order. Every failure wraps ErrInvalidGroupParameters.
func (c *GroupChecker) Check(g int32, p []byte) error {
	if len(p) != PrimeLen {
		return fmt.Errorf("%w: modulus is %d bytes, want %d", ErrInvalidGroupParameters, len(p), PrimeLen)
	}

	key := groupKey{g: g, p: sha256.Sum256(p)}
	if c.cacheEnabled && c.isKnown(key) {
		return nil
	}

	if err := c.CheckPrimeAndGenerator(g, intFromBytes(p)); err != nil {
		return err
	}

	if c.cacheEnabled {
		c.mu.Lock()
		c.known[key] = struct{}{}
		c.mu.Unlock()
	}
	return nil
}

// CheckPrimeAndGenerator runs the safe-prime test and the generator
// congruence check on p without the length requirement.
func (c *GroupChecker) CheckPrimeAndGenerator(g int32, p *big.Int) error {
	if p.Sign() <= 0 || !c.tester.IsPrime(p) {
		return fmt.Errorf("%w: modulus is not prime", ErrInvalidGroupParameters)
	}

	// q = (p - 1) / 2 must be prime as well
	q := new(big.Int).Rsh(p, 1)
	if !c.tester.IsPrime(q) {
		return fmt.Errorf("%w: modulus is not a safe prime", ErrInvalidGroupParameters)
	}

	ok, err := generatorMatches(g, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: g=%d does not generate the prime-order subgroup", ErrInvalidGroupParameters, g)
	}
	return nil
}

// KnownGroupCount returns the number of cached groups.
func (c *GroupChecker) KnownGroupCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.known)
}

func (c *GroupChecker) isKnown(key groupKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.known[key]
	return ok
}

// generatorMatches applies the quadratic residue condition for each supported g.
func generatorMatches(g int32, p *big.Int) (bool, error) {
	mod := func(m int64) int64 {
		return new(big.Int).Mod(p, big.NewInt(m)).Int64()
	}

	switch g {
	case 2:
		return mod(8) == 7, nil
	case 3:
		return mod(3) == 2, nil
	case 4:
		return true, nil
	case 5:
		r := mod(5)
		return r == 1 || r == 4, nil
	case 6:
		r := mod(24)
		return r == 19 || r == 23, nil
	case 7:
		r := mod(7)
		return r == 3 || r == 5 || r == 6, nil
	default:
		return false, fmt.Errorf("%w: %w: g=%d", ErrInvalidGroupParameters, ErrUnsupportedGenerator, g)
	}
}
