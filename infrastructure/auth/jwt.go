package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/infrastructure/config"
)

// TokenType distinguishes access tokens from refresh tokens. Only access
// tokens are accepted at the websocket handshake.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrTokenMissing = errors.New("authentication token is missing")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims are the custom JWT claims issued by the platform's identity service.
// For customer tokens the subject is a customer record id, not a user id.
type Claims struct {
	jwt.RegisteredClaims
	Role      string    `json:"role"`
	TenantID  string    `json:"tenant_id,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// TokenVerifier validates handshake credentials.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// VerifyAccessToken checks signature, expiry, token type, and role of the
// given credential and returns its claims.
func (v *TokenVerifier) VerifyAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	// A refresh token (or any other type) must not open a connection.
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	if _, err := model.ParseRole(claims.Role); err != nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
