package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewToken(42, testSecret, 15*time.Minute, AccessToken)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Type != AccessToken {
		t.Errorf("Type = %q, want %q", claims.Type, AccessToken)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewToken(1, testSecret, 15*time.Minute, AccessToken)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err == nil {
		t.Fatal("expected validation error for wrong secret")
	}
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	refresh, err := NewToken(7, testSecret, 7*24*time.Hour, RefreshToken)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	if _, err := ValidateAccessToken(refresh, testSecret); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("err = %v, want ErrWrongTokenType", err)
	}
	if _, err := ValidateRefreshToken(refresh, testSecret); err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token, err := NewToken(1, testSecret, -time.Minute, AccessToken)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err == nil {
		t.Fatal("expected validation error for expired token")
	}
}
