// Package auth issues and verifies the HS256 bearer tokens handed out at
// login. Tokens are stateless: there is no revocation list and logout is a
// client-side affair.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when Issue is called without a positive ttl.
const DefaultTokenTTL = 10 * time.Minute

// Claims carries the registered claims; Subject holds the user identity.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for subject that expires after validityDuration.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies signature and expiry and returns the subject.
// Expired tokens fail with common.ErrTokenExpired, anything else that does
// not verify with common.ErrInvalidToken.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

// TokenManager binds the signing secret and default lifetime so callers
// only deal in user ids.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a TokenManager. A non-positive ttl means DefaultTokenTTL.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: secret, ttl: ttl}
}

// Issue returns an access token for userID. A non-positive ttl selects the
// manager's default lifetime.
func (m *TokenManager) Issue(userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	return GenerateToken(strconv.FormatInt(userID, 10), m.secret, ttl)
}

// Verify returns the user id embedded in token.
func (m *TokenManager) Verify(token string) (int64, error) {
	sub, err := GetSubjectFromToken(token, m.secret)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}
