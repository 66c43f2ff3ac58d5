package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestValidateToken(t *testing.T) {
	uc := NewAuthUsecase("test-secret")
	valid := sign(t, jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{
		"user_id": "u1",
		"email":   "u1@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	p, err := uc.ValidateToken(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != "u1" || p.Email != "u1@example.com" {
		t.Errorf("unexpected principal: %+v", p)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	uc := NewAuthUsecase("test-secret")
	exp := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "u1", "exp": exp}),
		"expired":      sign(t, jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no expiry":    sign(t, jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{"user_id": "u1"}),
		"wrong alg":    sign(t, jwt.SigningMethodHS512, []byte("test-secret"), jwt.MapClaims{"user_id": "u1", "exp": exp}),
		"garbage":      "not-a-token",
	}
	for name, tok := range cases {
		if _, err := uc.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	missingUser := sign(t, jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{"exp": exp})
	if _, err := uc.ValidateToken(missingUser); err == nil {
		t.Error("expected error for token without user_id")
	}
}

func TestValidateToken_NoSecretConfigured(t *testing.T) {
	if _, err := NewAuthUsecase("").ValidateToken("anything"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
