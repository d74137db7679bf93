package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"reclamos-web/internal/domain"
)

// HMACCSRFGenerator derives CSRF tokens from session IDs using HMAC-SHA256.
// The token is deterministic per session, so the auth forms can embed it and
// the credential POST handlers can re-derive and compare.
// Implements domain.CSRFTokenGenerator.
type HMACCSRFGenerator struct {
	secret []byte
}

// NewHMACCSRFGenerator creates a CSRF token generator.
func NewHMACCSRFGenerator(secret string) *HMACCSRFGenerator {
	return &HMACCSRFGenerator{secret: []byte(secret)}
}

// Generate creates the CSRF token for a session ID.
func (g *HMACCSRFGenerator) Generate(sessionID string) (string, error) {
	if len(g.secret) == 0 {
		return "", domain.ErrCSRFSecretMissing
	}

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionID))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks a presented token against the session ID in constant time.
func (g *HMACCSRFGenerator) Verify(sessionID, presented string) error {
	expected, err := g.Generate(sessionID)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(presented)) {
		return domain.ErrCSRFMismatch
	}
	return nil
}
