package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
)

const testSecret = "a-long-and-secure-secret-for-tests"
const testUserID = "0b8f7f2e-3f0a-4c55-9e43-0c7f5f9f6a11"
const testRole = "teacher"

func TestNewTokenManager(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		_, err := auth.NewTokenManager(nil, time.Hour)
		if !errors.Is(err, auth.ErrMissingSecret) {
			t.Errorf("expected ErrMissingSecret, got %v", err)
		}
	})

	t.Run("ValidSecret", func(t *testing.T) {
		if _, err := auth.NewTokenManager([]byte(testSecret), time.Hour); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	tm, err := auth.NewTokenManager([]byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := tm.GenerateJWT(testUserID, testRole)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		claims, err := tm.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT failed unexpectedly: %v", err)
		}

		if claims.UserID != testUserID {
			t.Errorf("wrong UserID. expected: %s, got: %s", testUserID, claims.UserID)
		}
		if claims.Role != testRole {
			t.Errorf("wrong Role. expected: %s, got: %s", testRole, claims.Role)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := tm.GenerateWithTTL(testUserID, testRole, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateWithTTL failed: %v", err)
		}

		_, err = tm.ValidateJWT(tokenStr)
		if err == nil {
			t.Fatal("ValidateJWT should have failed for an expired token")
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("wrong error for expired token. expected: %v, got: %v", jwt.ErrTokenExpired, err)
		}
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		tokenStr, err := tm.GenerateJWT(testUserID, testRole)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		other, _ := auth.NewTokenManager([]byte("a-different-secret-entirely"), time.Hour)
		_, err = other.ValidateJWT(tokenStr)
		if err == nil {
			t.Fatal("ValidateJWT should have failed with an invalid signature")
		}
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			t.Errorf("wrong error for invalid signature: %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := tm.ValidateJWT("not-a-token"); err == nil {
			t.Fatal("ValidateJWT should reject malformed tokens")
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("hash must not equal the plain password")
	}
	if !auth.CheckPassword(hash, "s3cret!") {
		t.Error("CheckPassword rejected the right password")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("CheckPassword accepted the wrong password")
	}
}
