package srp_test

import (
	"math/big"
	"testing"

	"github.com/fzdarsky/twofa/pkg/srp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCheckPrimeAndGenerator(t *testing.T) {
	tests := []struct {
		name  string
		g     int32
		p     int64
		valid bool
	}{
		{name: "not prime", g: 0, p: 4, valid: false},
		{name: "prime but not safe", g: 0, p: 13, valid: false},
		{name: "g=2 bad residue", g: 2, p: 11, valid: false},
		{name: "g=2", g: 2, p: 23, valid: true},
		{name: "g=3 not safe", g: 3, p: 13, valid: false},
		{name: "g=3", g: 3, p: 47, valid: true},
		{name: "g=4", g: 4, p: 11, valid: true},
		{name: "g=5 not safe", g: 5, p: 13, valid: false},
		{name: "g=5 p=11", g: 5, p: 11, valid: true},
		{name: "g=5 p=179", g: 5, p: 179, valid: true},
		{name: "g=6 not safe", g: 6, p: 13, valid: false},
		{name: "g=6", g: 6, p: 383, valid: true},
		{name: "g=7 not safe", g: 7, p: 13, valid: false},
		{name: "g=7 p=479", g: 7, p: 479, valid: true},
		{name: "g=7 p=383", g: 7, p: 383, valid: true},
		{name: "g=7 p=503", g: 7, p: 503, valid: true},
	}

	checker := srp.NewGroupChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.CheckPrimeAndGenerator(tt.g, big.NewInt(tt.p))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, srp.ErrInvalidGroupParameters)
			}
		})
	}
}

func TestCheckPrimeAndGenerator_UnsupportedGenerator(t *testing.T) {
	checker := srp.NewGroupChecker()

	for _, g := range []int32{0, 1, 8, 255, -3} {
		err := checker.CheckPrimeAndGenerator(g, big.NewInt(23))
		require.Error(t, err, "g=%d", g)
		assert.ErrorIs(t, err, srp.ErrInvalidGroupParameters)
		assert.ErrorIs(t, err, srp.ErrUnsupportedGenerator)
	}
}

func TestGroupChecker_Check_RealGroup(t *testing.T) {
	alg := realAlgorithm(t)
	checker := srp.NewGroupChecker()

	assert.NoError(t, checker.Check(alg.G, alg.P))
	assert.True(t, srp.IsValidGroup(alg.G, alg.P))

	// p mod 8 = 3 and p mod 5 = 3 for this prime
	assert.False(t, checker.IsValidGroup(2, alg.P))
	assert.False(t, checker.IsValidGroup(5, alg.P))
	assert.True(t, checker.IsValidGroup(4, alg.P))
}

func TestGroupChecker_Check_Length(t *testing.T) {
	checker := srp.NewGroupChecker()

	tests := []struct {
		name string
		p    []byte
	}{
		{name: "empty", p: nil},
		{name: "short prime", p: []byte{47}},
		{name: "too long", p: make([]byte, srp.PrimeLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.Check(3, tt.p)
			assert.ErrorIs(t, err, srp.ErrInvalidGroupParameters)
			assert.Contains(t, err.Error(), "want 256")
		})
	}
}

func TestGroupChecker_Check_PaddedSmallPrime(t *testing.T) {
	// The length gate only looks at the encoding, so a padded 47 passes.
	assert.NoError(t, srp.NewGroupChecker().Check(3, smallModulus(t)))
}

func TestGroupChecker_UsesInjectedTester(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tester := srp.NewMockPrimalityTester(ctrl)
	gomock.InOrder(
		tester.EXPECT().IsPrime(big.NewInt(23)).Return(true),
		tester.EXPECT().IsPrime(big.NewInt(11)).Return(false),
	)

	checker := srp.NewGroupChecker(srp.WithPrimalityTester(tester))
	err := checker.CheckPrimeAndGenerator(2, big.NewInt(23))
	assert.ErrorIs(t, err, srp.ErrInvalidGroupParameters)
	assert.Contains(t, err.Error(), "not a safe prime")
}

func TestGroupChecker_CompositeShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tester := srp.NewMockPrimalityTester(ctrl)
	tester.EXPECT().IsPrime(gomock.Any()).Return(false).Times(1)

	checker := srp.NewGroupChecker(srp.WithPrimalityTester(tester))
	err := checker.CheckPrimeAndGenerator(3, big.NewInt(49))
	assert.ErrorIs(t, err, srp.ErrInvalidGroupParameters)
}

func TestGroupChecker_Cache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := smallModulus(t)

	tester := srp.NewMockPrimalityTester(ctrl)
	// p and (p-1)/2 are tested once; the second Check hits the cache
	tester.EXPECT().IsPrime(gomock.Any()).Return(true).Times(2)

	checker := srp.NewGroupChecker(srp.WithPrimalityTester(tester), srp.WithGroupCache())
	require.NoError(t, checker.Check(3, p))
	require.NoError(t, checker.Check(3, p))
	assert.Equal(t, 1, checker.KnownGroupCount())
}

func TestGroupChecker_CacheSkipsFailures(t *testing.T) {
	checker := srp.NewGroupChecker(srp.WithGroupCache())
	p := smallModulus(t)

	// 47 mod 5 = 2
	assert.Error(t, checker.Check(5, p))
	assert.Equal(t, 0, checker.KnownGroupCount())

	assert.NoError(t, checker.Check(3, p))
	assert.Equal(t, 1, checker.KnownGroupCount())
}

func TestProbablyPrimeTester_DefaultRounds(t *testing.T) {
	var tester srp.ProbablyPrimeTester
	assert.True(t, tester.IsPrime(big.NewInt(503)))
	assert.False(t, tester.IsPrime(big.NewInt(501)))
}
