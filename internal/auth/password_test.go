package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q is not bcrypt-shaped", hash)
	}
	if strings.Contains(hash, "correct horse") {
		t.Error("hash contains plaintext")
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", hash) {
		t.Error("empty password accepted")
	}
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("garbage hash verified")
	}
	if VerifyPassword("anything", "") {
		t.Error("empty hash verified")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Error("identical hashes for the same password; salt missing")
	}
}
