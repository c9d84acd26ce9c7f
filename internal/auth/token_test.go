package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashToken_RoundTrip(t *testing.T) {
	hash, err := HashToken("secret-token")
	if err != nil {
		t.Fatalf("HashToken error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	valid, err := VerifyToken("secret-token", hash)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if !valid {
		t.Fatal("correct token was rejected")
	}

	valid, err = VerifyToken("wrong-token", hash)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if valid {
		t.Fatal("wrong token was accepted")
	}
}

func TestHashToken_Salted(t *testing.T) {
	a, _ := HashToken("same")
	b, _ := HashToken("same")
	if a == b {
		t.Error("two hashes of the same token should differ")
	}
}

func TestVerifyToken_ForeignParameters(t *testing.T) {
	// hash produced with m=65536,t=1,p=4 for "changeme"
	hash := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	valid, err := VerifyToken("changeme", hash)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if !valid {
		t.Error("token hashed with other parameters was rejected")
	}
}

func TestVerifyToken_InvalidHash(t *testing.T) {
	tests := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$!!",
	}
	for _, hash := range tests {
		if _, err := VerifyToken("x", hash); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("VerifyToken(%q) error = %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	b, _ := GenerateToken()
	if a == b {
		t.Error("generated tokens should be unique")
	}
	if !strings.HasPrefix(a, "tdm_") || len(a) != len("tdm_")+43 {
		t.Errorf("token = %q", a)
	}
}
