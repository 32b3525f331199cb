package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/utils"
)

// ncaNodeStatusOK is the application-level success code in NCANode responses,
// carried in the JSON body independently of the HTTP status.
const ncaNodeStatusOK = 200

// verifyRequest is the payload of POST /xml/verify. The OCSP revocation check
// is always requested so that revoked certificates are rejected.
type verifyRequest struct {
	XML             string   `json:"xml"`
	RevocationCheck []string `json:"revocationCheck"`
}

// verifyResponse mirrors the subset of the NCANode response the adapter needs:
// the application status code and, per signer, validity plus the certificate
// subject with the signer's IIN.
type verifyResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Signers []struct {
		Valid   bool `json:"valid"`
		Subject struct {
			IIN        string `json:"iin"`
			CommonName string `json:"commonName"`
		} `json:"subject"`
	} `json:"signers"`
}

// ncaNodeAdapter is the HTTP implementation of [EDSVerifier] backed by a
// NCANode instance.
type ncaNodeAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewEDSVerifier constructs an [EDSVerifier] talking to the NCANode instance
// at cfg.EDSAddress. It normalises and validates the base URL and bounds
// every outbound call by cfg.RequestTimeout.
//
// Returns an error if cfg.EDSAddress is empty or cannot be parsed as a
// valid URL.
func NewEDSVerifier(cfg config.Adapter, logger *logger.Logger) (EDSVerifier, error) {
	baseURL, err := normalizeBaseURL(cfg.EDSAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid eds address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout)

	return &ncaNodeAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Verify implements [EDSVerifier]. It posts the signed document to
// NCANode's /xml/verify endpoint with an OCSP revocation check and accepts
// the signature only when the application status is 200 and the first signer
// is reported valid.
func (n *ncaNodeAdapter) Verify(ctx context.Context, signedXML string) (string, error) {
	log := logger.FromContext(ctx)

	var result verifyResponse

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(verifyRequest{XML: signedXML, RevocationCheck: []string{"OCSP"}}).
		SetResult(&result).
		Post("/xml/verify")

	if err != nil {
		log.Err(err).Str("func", "*ncaNodeAdapter.Verify").Msg("ncanode request failed")
		return "", fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	}
	if resp.IsError() {
		log.Error().Str("func", "*ncaNodeAdapter.Verify").Int("http_status", resp.StatusCode()).Msg("ncanode responded with error status")
		return "", fmt.Errorf("%w: http status %d", ErrVerifierUnavailable, resp.StatusCode())
	}

	if result.Status != ncaNodeStatusOK || len(result.Signers) == 0 || !result.Signers[0].Valid {
		log.Warn().
			Str("func", "*ncaNodeAdapter.Verify").
			Int("ncanode_status", result.Status).
			Str("message", result.Message).
			Msg("signature verification failed")
		return "", ErrInvalidSignature
	}

	iin := result.Signers[0].Subject.IIN
	if iin == "" {
		log.Warn().Str("func", "*ncaNodeAdapter.Verify").Msg("signer certificate carries no iin")
		return "", ErrInvalidSignature
	}

	return iin, nil
}
