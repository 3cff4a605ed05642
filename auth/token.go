package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 3 * time.Hour

var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token has expired")
	ErrMalformed        = errors.New("token is malformed")
)

// Claims is the token payload. Exactly one of AdminID and UserID is set.
type Claims struct {
	AdminID string `json:"adminId,omitempty"`
	UserID  string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what a verified token asserts.
type Identity struct {
	Kind models.Kind
	ID   string
}

// TokenService signs and verifies stateless HS256 tokens. Nothing is stored
// server side, so a token cannot be revoked before it expires.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of s reading time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	return &TokenService{secret: s.secret, now: now}
}

func (s *TokenService) Issue(kind models.Kind, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("issue token: empty %s id", kind)
	}
	issuedAt := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}
	switch kind {
	case models.KindAdmin:
		claims.AdminID = id
	case models.KindUser:
		claims.UserID = id
	default:
		return "", fmt.Errorf("issue token: unknown kind %q", kind)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case claims.AdminID != "" && claims.UserID == "":
		return Identity{Kind: models.KindAdmin, ID: claims.AdminID}, nil
	case claims.UserID != "" && claims.AdminID == "":
		return Identity{Kind: models.KindUser, ID: claims.UserID}, nil
	default:
		return Identity{}, fmt.Errorf("%w: token must carry exactly one identity", ErrMalformed)
	}
}
