// Package adapter provides outbound integrations for the request-desk server.
//
// The primary abstraction is [EDSVerifier], which decouples the auth service
// from the NCANode HTTP API used to verify Kazakhstan eGov digital signatures.
// Error values defined in errors.go are returned so that callers can use
// [errors.Is] for transport-agnostic error handling (e.g. [ErrInvalidSignature]
// for a failed verification, [ErrVerifierUnavailable] when NCANode is down).
package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/eds_verifier_mock.go -package=mock

// EDSVerifier verifies a signed XML document and extracts the signer identity.
type EDSVerifier interface {
	// Verify checks the document's digital signature, including an OCSP
	// revocation check, and returns the signer's IIN on success.
	//
	// Returns [ErrInvalidSignature] when the signature does not verify or
	// carries no IIN, and [ErrVerifierUnavailable] when the verification
	// service cannot be reached.
	Verify(ctx context.Context, signedXML string) (string, error)
}
