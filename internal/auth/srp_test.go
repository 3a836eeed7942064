package auth_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/fzdarsky/twofa/internal/auth"
	"github.com/fzdarsky/twofa/pkg/protocol"
	"github.com/fzdarsky/twofa/pkg/srp"
)

func testAlgorithm(t *testing.T) srp.Algorithm {
	t.Helper()
	p, err := hex.DecodeString(auth.DefaultPrimeHex)
	if err != nil {
		t.Fatalf("invalid default prime: %v", err)
	}
	return srp.Algorithm{
		Salt1: bytes.Repeat([]byte{0x11}, 40),
		Salt2: bytes.Repeat([]byte{0x22}, 16),
		G:     auth.DefaultGenerator,
		P:     p,
	}
}

func TestDefaultGroupIsValid(t *testing.T) {
	alg := testAlgorithm(t)
	if err := srp.NewGroupChecker().Check(alg.G, alg.P); err != nil {
		t.Fatalf("default group rejected: %v", err)
	}
}

func TestNewSRPServer(t *testing.T) {
	alg := testAlgorithm(t)
	verifier, err := srp.ComputeVerifier(alg, []byte("hunter2"))
	if err != nil {
		t.Fatalf("ComputeVerifier() failed: %v", err)
	}

	server, err := auth.NewSRPServer(alg, verifier, rand.Reader)
	if err != nil {
		t.Fatalf("NewSRPServer() failed: %v", err)
	}
	defer server.ClearSecrets()

	if len(server.B) != srp.PrimeLen {
		t.Errorf("expected B of %d bytes, got %d", srp.PrimeLen, len(server.B))
	}
	if bytes.Equal(server.B, make([]byte, srp.PrimeLen)) {
		t.Error("B must not be zero")
	}
}

func TestNewSRPServer_InvalidModulus(t *testing.T) {
	tests := []struct {
		name string
		p    []byte
	}{
		{name: "empty", p: nil},
		{name: "oversized", p: bytes.Repeat([]byte{0xff}, srp.PrimeLen+1)},
		{name: "zero", p: make([]byte, srp.PrimeLen)},
		{name: "even", p: append(bytes.Repeat([]byte{0xff}, srp.PrimeLen-1), 0xfe)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg := testAlgorithm(t)
			alg.P = tt.p

			server, err := auth.NewSRPServer(alg, []byte{0x02}, rand.Reader)
			if !errors.Is(err, srp.ErrInvalidGroupParameters) {
				t.Errorf("expected ErrInvalidGroupParameters, got %v", err)
			}
			if server != nil {
				t.Error("expected no server for an invalid modulus")
			}
		})
	}
}

func TestSRPServer_Verify(t *testing.T) {
	alg := testAlgorithm(t)
	verifier, err := srp.ComputeVerifier(alg, []byte("hunter2"))
	if err != nil {
		t.Fatalf("ComputeVerifier() failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "correct password", password: "hunter2", wantErr: false},
		{name: "wrong password", password: "hunter3", wantErr: true},
		{name: "empty password", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := auth.NewSRPServer(alg, verifier, rand.Reader)
			if err != nil {
				t.Fatalf("NewSRPServer() failed: %v", err)
			}
			defer server.ClearSecrets()

			a := make([]byte, 256)
			if _, err := rand.Read(a); err != nil {
				t.Fatal(err)
			}

			proof, err := srp.Calculate2FA(alg.Salt1, alg.Salt2, alg.G, alg.P, server.B, a, []byte(tt.password))
			if err != nil {
				t.Fatalf("Calculate2FA() failed: %v", err)
			}

			err = server.Verify(&protocol.InputCheckPasswordSRP{A: proof.A, M1: proof.M1})
			if tt.wantErr && err == nil {
				t.Error("expected verification to fail")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected verification to succeed, got %v", err)
			}
		})
	}
}

func TestSRPServer_VerifyRejectsDegenerateA(t *testing.T) {
	alg := testAlgorithm(t)
	verifier, err := srp.ComputeVerifier(alg, []byte("hunter2"))
	if err != nil {
		t.Fatalf("ComputeVerifier() failed: %v", err)
	}

	server, err := auth.NewSRPServer(alg, verifier, rand.Reader)
	if err != nil {
		t.Fatalf("NewSRPServer() failed: %v", err)
	}

	for _, A := range [][]byte{{0}, alg.P, make([]byte, 257)} {
		if err := server.Verify(&protocol.InputCheckPasswordSRP{A: A, M1: make([]byte, 32)}); err == nil {
			t.Errorf("expected A of %d bytes to be rejected", len(A))
		}
	}
}

func TestSRPServer_ClearSecrets(t *testing.T) {
	alg := testAlgorithm(t)
	server, err := auth.NewSRPServer(alg, []byte{4}, rand.Reader)
	if err != nil {
		t.Fatalf("NewSRPServer() failed: %v", err)
	}

	server.ClearSecrets()

	if err := server.Verify(&protocol.InputCheckPasswordSRP{A: []byte{2}, M1: make([]byte, 32)}); err == nil {
		t.Error("expected Verify() to fail after ClearSecrets()")
	}
}

func TestNewSRPServer_RandomFailure(t *testing.T) {
	alg := testAlgorithm(t)
	if _, err := auth.NewSRPServer(alg, []byte{4}, bytes.NewReader(nil)); err == nil {
		t.Error("expected error when the random source is exhausted")
	}
}
