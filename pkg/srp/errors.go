package srp

import "errors"

var (
	// ErrInvalidGroupParameters is returned when (g, p) is not a usable group:
	// the modulus is not 256 bytes, is not a safe prime, fails the generator
	// congruence, or the generator is not supported.
	ErrInvalidGroupParameters = errors.New("invalid group parameters")

	// ErrUnsupportedGenerator is wrapped together with ErrInvalidGroupParameters
	// when g is outside 2..7.
	ErrUnsupportedGenerator = errors.New("unsupported generator")

	// ErrMissingServerValue is returned when a value the server should have
	// supplied is absent.
	ErrMissingServerValue = errors.New("missing server value")

	// ErrPreconditionViolation is returned when an operation is invoked in the
	// wrong password state.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrInvalidServerEphemeral is returned when g_b is congruent to 0 mod p.
	ErrInvalidServerEphemeral = errors.New("invalid server ephemeral g_b")

	// ErrPaddingOverflow is returned when a value longer than 256 bytes is padded.
	ErrPaddingOverflow = errors.New("value exceeds 256 bytes")

	// ErrLengthMismatch is returned by XOR for inputs of different lengths.
	ErrLengthMismatch = errors.New("length mismatch")
)
