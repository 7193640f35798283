package hasher

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHash_RoundTrip(t *testing.T) {
	h := New()

	hash, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatalf("hash equals plaintext")
	}

	ok, err := h.Verify("s3cret-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected hash to verify against its own password")
	}
}

func TestHash_Cost(t *testing.T) {
	h := New()

	hash, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost extraction failed: %v", err)
	}
	if cost != Cost {
		t.Fatalf("expected cost %d, got %d", Cost, cost)
	}
}

func TestHash_SaltedOutput(t *testing.T) {
	h := New()

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password should differ")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	h := New()

	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h := New()

	hash, err := h.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := h.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("wrong password must not be an error, got %v", err)
	}
	if ok {
		t.Fatalf("wrong password verified")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := New()

	ok, err := h.Verify("whatever", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatalf("expected error for malformed hash")
	}
	if ok {
		t.Fatalf("malformed hash must not verify")
	}
	if !strings.Contains(err.Error(), "bcrypt verify") {
		t.Fatalf("unexpected error: %v", err)
	}
}
