package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dodo-tasks/backend/internal/models"
)

func newTestTokens(t *testing.T, now time.Time) *Tokens {
	t.Helper()
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	tokens.now = func() time.Time { return now }
	return tokens
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewTokensDefaultTTL(t *testing.T) {
	tokens, err := NewTokens("s", 0)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	if tokens.ttl != DefaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", tokens.ttl, DefaultTokenTTL)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := newTestTokens(t, now)

	tok, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !tok.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiresAt = %v, want %v", tok.ExpiresAt, now.Add(time.Hour))
	}

	id, err := tokens.Verify(tok.Value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "user-42" {
		t.Fatalf("UserID = %q, want user-42", id.UserID)
	}
	if !id.IssuedAt.Equal(now) || !id.ExpiresAt.Equal(tok.ExpiresAt) {
		t.Fatalf("identity times = %v/%v", id.IssuedAt, id.ExpiresAt)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	tokens := newTestTokens(t, time.Now())
	tok, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sigStart := strings.LastIndex(tok.Value, ".") + 1
	// The final base64url character carries padding bits, so flipping it
	// may decode to the same bytes.
	for i := sigStart; i < len(tok.Value)-1; i++ {
		b := []byte(tok.Value)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := tokens.Verify(string(b))
		if !errors.Is(err, models.ErrInvalidToken) {
			t.Fatalf("byte %d modified: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := newTestTokens(t, issuedAt)
	tok, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tokens.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := tokens.Verify(tok.Value); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	now := time.Now()
	tok, err := newTestTokens(t, now).Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, err := NewTokens("rotated-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	if _, err := other.Verify(tok.Value); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after secret change, got %v", err)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	tokens := newTestTokens(t, time.Now())
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Verify(raw); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyMissingUserID(t *testing.T) {
	now := time.Now()
	tokens := newTestTokens(t, now)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = tokens.Verify(raw)
	if !errors.Is(err, models.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	tokens := newTestTokens(t, time.Now())
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{UserID: "user-42"}).
		SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Verify(raw); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer   ", wantErr: true},
		{header: "Basic dXNlcjpwdw==", wantErr: true},
		{header: "abc.def.ghi", wantErr: true},
	}

	for _, tc := range cases {
		got, err := BearerToken(tc.header)
		if tc.wantErr {
			if !errors.Is(err, models.ErrUnauthenticated) {
				t.Fatalf("BearerToken(%q): expected ErrUnauthenticated, got %v", tc.header, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q", tc.header, got, err, tc.want)
		}
	}
}
