package auth

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "cargo-quotes"

var ErrInvalidToken = errors.New("invalid token")

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs sessions as HS256 tokens. The session id travels as the
// jti claim so a logout can revoke it.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

var _ interfaces.ITokenManager = (*JWTManager)(nil)

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

func (m *JWTManager) Issue(s entities.Session) (string, error) {
	if s.UserID == "" || s.SessionID == "" {
		return "", fmt.Errorf("%w: session is missing user or session id", ErrInvalidToken)
	}
	claims := sessionClaims{
		Role: string(s.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			ID:        s.SessionID,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) Parse(token string) (entities.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return entities.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role := entities.Role(claims.Role)
	if !role.Valid() || claims.Subject == "" || claims.ID == "" {
		return entities.Session{}, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}
	return entities.Session{
		UserID:    claims.Subject,
		Role:      role,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
