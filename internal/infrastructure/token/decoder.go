package token

import (
	"fmt"
	"time"

	"reclamos-web/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Accepted claim keys, in priority order. The backend issues .NET-style
// claim URIs; the short names are kept as a compatibility shim for
// heterogeneous token issuers.
var (
	subjectClaimKeys = []string{
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier",
		"nameid",
		"sub",
	}
	nameClaimKeys = []string{
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name",
		"unique_name",
		"name",
	}
	emailClaimKeys = []string{
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress",
		"email",
	}
	roleClaimKeys = []string{
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/role",
		"role",
	}
)

// Decoder reads claims out of bearer tokens without verifying the signature.
// The backend verified the signature at issuance; validity here is judged
// purely by the expiry claim. Implements domain.ClaimDecoder.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder creates a claim decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// parse extracts the claim map from a raw token string.
func (d *Decoder) parse(raw string) (jwt.MapClaims, error) {
	tok, _, err := d.parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

// firstString returns the first present string value among keys.
func firstString(claims jwt.MapClaims, keys []string) (string, bool) {
	for _, key := range keys {
		if v, ok := claims[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// Identity decodes the subject id, name, email and role claims into a
// UserIdentity. A missing or unparsable subject id is a decode failure.
func (d *Decoder) Identity(raw string) (*domain.UserIdentity, error) {
	claims, err := d.parse(raw)
	if err != nil {
		return nil, err
	}

	sub, ok := firstString(claims, subjectClaimKeys)
	if !ok {
		return nil, domain.ErrNoSubject
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoSubject, err)
	}

	nombre, _ := firstString(claims, nameClaimKeys)
	email, _ := firstString(claims, emailClaimKeys)

	// Absent or unknown role degrades to Usuario for identity assembly;
	// role-gated routes re-check through Role, which fails closed.
	rol := domain.RoleUsuario
	if name, ok := firstString(claims, roleClaimKeys); ok {
		if parsed, ok := domain.ParseRole(name); ok {
			rol = parsed
		}
	}

	return &domain.UserIdentity{
		ID:     id,
		Nombre: nombre,
		Email:  email,
		Rol:    rol,
	}, nil
}

// Expiry returns the token's expiry claim. Tokens without one are rejected.
func (d *Decoder) Expiry(raw string) (time.Time, error) {
	claims, err := d.parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, domain.ErrTokenMalformed
	}
	return exp.Time, nil
}

// Role scans the raw token for a role claim under the accepted key
// spellings. Used as the last-resort fallback when identity resolution
// failed but a token is still present.
func (d *Decoder) Role(raw string) (domain.Role, error) {
	claims, err := d.parse(raw)
	if err != nil {
		return 0, err
	}
	name, ok := firstString(claims, roleClaimKeys)
	if !ok {
		return 0, domain.ErrRoleUnknown
	}
	role, ok := domain.ParseRole(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrRoleUnknown, name)
	}
	return role, nil
}
