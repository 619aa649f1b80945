// Package auth provides bearer token verification helpers.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates bearer tokens and extracts tenant/role claims.
// Supports modes: dev (token is "tenant:role", no verification) and
// hmac (HS256 JWT signed with a shared secret).
type Verifier struct {
	Mode        string
	HMACSecret  []byte
	TenantClaim string
	RoleClaim   string
	parser      *jwt.Parser
}

type Principal struct {
	Tenant string
	Role   string
	Sub    string
}

var ErrUnauthorized = errors.New("unauthorized")

// NewVerifier builds a Verifier. Empty claim names default to "tenant" and "role".
func NewVerifier(mode string, secret []byte, tenantClaim, roleClaim string) *Verifier {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = "dev"
	}
	if tenantClaim == "" {
		tenantClaim = "tenant"
	}
	if roleClaim == "" {
		roleClaim = "role"
	}
	return &Verifier{
		Mode:        mode,
		HMACSecret:  secret,
		TenantClaim: tenantClaim,
		RoleClaim:   roleClaim,
		parser:      jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

func (v *Verifier) Verify(token string) (Principal, error) {
	switch v.Mode {
	case "dev":
		parts := strings.Split(token, ":")
		if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
			return Principal{Tenant: parts[0], Role: parts[1]}, nil
		}
		return Principal{}, fmt.Errorf("%w: invalid dev token; expected tenant:role", ErrUnauthorized)
	case "hmac":
		claims := jwt.MapClaims{}
		_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return v.HMACSecret, nil })
		if err != nil {
			return Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		tenant, _ := claims[v.TenantClaim].(string)
		role, _ := claims[v.RoleClaim].(string)
		sub, _ := claims.GetSubject()
		if tenant == "" {
			return Principal{}, fmt.Errorf("%w: missing %s claim", ErrUnauthorized, v.TenantClaim)
		}
		return Principal{Tenant: tenant, Role: role, Sub: sub}, nil
	default:
		return Principal{}, fmt.Errorf("%w: unsupported auth mode %q", ErrUnauthorized, v.Mode)
	}
}
