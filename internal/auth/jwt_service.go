package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenExpiry is the fixed validity window of an issued token. Tokens are not renewed.
const TokenExpiry = 24 * time.Hour

var (
	// ErrInvalidToken is returned for any token that must be treated as unauthenticated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned together with ErrInvalidToken once exp has passed.
	ErrTokenExpired = errors.New("token expired")
)

var signingMethod = jwt.SigningMethodHS512

func init() {
	// non-zero trailing bits in the last base64url character must not decode
	// to the same signature
	jwt.DecodeStrict = true
}

// Claims is the payload carried by an identity token.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the caller derived from a verified token.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// TokenService issues and verifies HMAC-signed identity tokens.
//
// Issuer and audience are intentionally not part of the claims and are never
// checked: the service is the only issuer and the only consumer.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service with the process-wide signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a token for the given identity that expires TokenExpiry from now.
func (s *TokenService) Issue(username string, role Role) (string, error) {
	now := s.now()
	claims := &Claims{
		Name: username,
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, encoding and expiry and returns the identity the
// token was issued for. Failures carry no claim data.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		// time-based claims are checked below against the injectable clock
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %v: %w", err, ErrInvalidToken)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.ExpiresAt == nil {
		return Identity{}, fmt.Errorf("missing exp: %w", ErrInvalidToken)
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return Identity{}, fmt.Errorf("%w at %s: %w", ErrTokenExpired, claims.ExpiresAt.Time.UTC().Format(time.RFC3339), ErrInvalidToken)
	}

	if claims.Name == "" {
		return Identity{}, fmt.Errorf("missing name: %w", ErrInvalidToken)
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}

	return Identity{Username: claims.Name, Role: role}, nil
}
