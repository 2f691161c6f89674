package auth

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken(42, "fan@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "fan@example.com" {
		t.Errorf("expected email fan@example.com, got %s", claims.Email)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := GenerateToken(7, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	InitJWT("secret-two")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("malformed token must be rejected")
	}
}
