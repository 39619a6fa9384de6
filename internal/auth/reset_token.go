package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fintrack/internal/identifier"
)

// ResetTokenExpiry bounds how long a verified-but-unused reset permission
// stays valid. A user who verifies a passcode and walks away loses the
// permission after this window.
const ResetTokenExpiry = 15 * time.Minute

// ResetClaims scope a reset token to exactly one contact identifier.
type ResetClaims struct {
	Identifier     string `json:"identifier"`
	IdentifierKind string `json:"identifier_kind"`
	jwt.RegisteredClaims
}

// TaggedIdentifier rebuilds the typed identifier carried in the claims.
func (c *ResetClaims) TaggedIdentifier() identifier.Identifier {
	return identifier.Identifier{
		Kind:  identifier.Kind(c.IdentifierKind),
		Value: c.Identifier,
	}
}

// ResetTokenService signs and validates short-lived password-reset tokens.
type ResetTokenService struct {
	secret []byte
}

// NewResetTokenService creates a new reset token service with the given secret.
func NewResetTokenService(secret string) *ResetTokenService {
	return &ResetTokenService{secret: []byte(secret)}
}

// Issue signs a reset token for the identifier. The token ID is returned
// separately so the caller can register it for single use.
func (s *ResetTokenService) Issue(ident identifier.Identifier) (tokenID string, token string, err error) {
	tokenID = uuid.NewString()
	claims := &ResetClaims{
		Identifier:     ident.Value,
		IdentifierKind: string(ident.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = tokenObj.SignedString(s.secret)
	return tokenID, token, err
}

// Validate parses a reset token string and returns its claims.
func (s *ResetTokenService) Validate(tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
