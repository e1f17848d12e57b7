package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dodo-tasks/backend/internal/models"
)

// DefaultTokenTTL is used when no lifetime is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Token is a signed bearer token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens. Tokens are
// self-verifying; nothing is persisted server-side.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens fails with models.ErrConfiguration when secret is empty.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: token signing secret is not set", models.ErrConfiguration)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID, valid for the configured lifetime.
func (t *Tokens) Issue(userID string) (Token, error) {
	if userID == "" {
		return Token{}, errors.New("issue token: empty user id")
	}
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Verify checks the signature and expiry of raw and returns the
// embedded identity. Bad signatures and expired tokens wrap
// models.ErrInvalidToken; a valid token without a user id wraps
// models.ErrMalformedToken.
func (t *Tokens) Verify(raw string) (Identity, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Identity{}, models.ErrMalformedToken
	}

	id := Identity{UserID: claims.UserID}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return id, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", models.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", models.ErrUnauthenticated
	}
	return token, nil
}
