package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin   Role = "administrador"
	RoleCashier Role = "cajero"
)

// ErrUnauthorized covers every token failure: absent, malformed, bad
// signature, or expired. Callers map it to a 401.
var ErrUnauthorized = errors.New("token inválido")

// Claims are the verified contents of a bearer token.
type Claims struct {
	Subject string
	Role    Role
	Expiry  time.Time
}

type tokenClaims struct {
	Role string `json:"rol"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens against the deployment-wide shared secret.
// Verification is pure: no refresh, no revocation, a token stays valid until
// its fixed expiry.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, fmt.Errorf("%w: token de autenticación requerido", ErrUnauthorized)
	}

	var tc tokenClaims
	tok, err := jwt.ParseWithClaims(tokenString, &tc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !tok.Valid {
		return Claims{}, ErrUnauthorized
	}

	var exp time.Time
	if tc.ExpiresAt != nil {
		exp = tc.ExpiresAt.Time
	}
	return Claims{Subject: tc.Subject, Role: Role(tc.Role), Expiry: exp}, nil
}

// Issuer signs access tokens for authenticated users. Only the auth service
// issues; the gateway and the other services just verify.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry}
}

func (i *Issuer) Issue(subject string, role Role, now time.Time) (string, error) {
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}
