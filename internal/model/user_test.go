package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSafeStripsPasswordHash(t *testing.T) {
	now := time.Now().UTC()
	u := &User{
		ID:           "u1",
		Name:         "Ada",
		Email:        "ada@x.com",
		PasswordHash: "$2a$12$secret",
		Roles:        []string{DefaultRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	safe := u.Safe()
	if safe.ID != u.ID || safe.Email != u.Email || safe.Name != u.Name {
		t.Fatalf("projection lost fields: %+v", safe)
	}

	b, err := json.Marshal(safe)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret") || strings.Contains(strings.ToLower(string(b)), "password") {
		t.Errorf("safe user leaks password material: %s", b)
	}
}

func TestSafeNilReceiver(t *testing.T) {
	var u *User
	if got := u.Safe(); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(&User{ID: "u1", PasswordHash: "hash-material"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "hash-material") {
		t.Errorf("raw user encoding leaks the hash: %s", b)
	}
}
