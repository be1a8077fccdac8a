// Package auth verifies identity-provider bearer tokens. The provider
// signs HS256 JWTs with a secret shared with this server; the subject
// claim is the caller's stable external id.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/recordvault/recordvault/internal/common"
)

// IdentityClaims are the claims this server reads from a provider token.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Identity is the verified result of parsing a token.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

// ParseIdentityToken verifies the signature and expiry of tokenString and
// returns the embedded identity. Any failure, including a missing subject,
// is reported as ErrorUnauthenticated with no further detail.
func ParseIdentityToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &IdentityClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, common.ErrorUnauthenticated
	}
	if claims.Subject == "" {
		return nil, common.ErrorUnauthenticated
	}

	return &Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
	}, nil
}

// GenerateIdentityToken mints a provider-style token. Used by tests and
// local development tooling; production tokens come from the provider.
func GenerateIdentityToken(externalID, email, name string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Email: email,
		Name:  name,
	})
	return token.SignedString(secretKey)
}
