package adapter

import "errors"

var (
	// ErrInvalidSignature is returned when NCANode rejects the signature or
	// the signer certificate carries no IIN.
	ErrInvalidSignature = errors.New("invalid digital signature")

	// ErrVerifierUnavailable is returned when the NCANode service cannot be
	// reached or responds with a malformed payload.
	ErrVerifierUnavailable = errors.New("signature verification service unavailable")
)
