package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestVerifyDev(t *testing.T) {
	v := NewVerifier("", nil, "", "")
	p, err := v.Verify("t1:dispatcher")
	if err != nil || p.Tenant != "t1" || p.Role != "dispatcher" {
		t.Fatalf("got %+v, %v", p, err)
	}
	if _, err := v.Verify("garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestVerifyHMAC(t *testing.T) {
	v := NewVerifier("hmac", []byte("k"), "org", "")
	tok := sign(t, "k", jwt.MapClaims{"org": "t9", "role": "admin", "sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	p, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Tenant != "t9" || p.Role != "admin" || p.Sub != "u1" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestVerifyHMACRejects(t *testing.T) {
	v := NewVerifier("hmac", []byte("k"), "", "")
	cases := map[string]string{
		"wrong key":     sign(t, "other", jwt.MapClaims{"tenant": "t", "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":       sign(t, "k", jwt.MapClaims{"tenant": "t", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no exp":        sign(t, "k", jwt.MapClaims{"tenant": "t"}),
		"missing claim": sign(t, "k", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}),
		"not a jwt":     "abc",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Verify(tok); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("want ErrUnauthorized, got %v", err)
			}
		})
	}
}
