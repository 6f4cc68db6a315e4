package security

import (
	"errors"
	"strings"
	"testing"

	"minimarket/internal/common"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *PasswordHasher {
	// MinCost keeps the tests fast; the work factor does not change behavior.
	return NewPasswordHasher(bcrypt.MinCost)
}

func TestHashAndCheck_Roundtrip(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	hash, err := h.Hash("Secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "Secret123" {
		t.Fatalf("hash equals plaintext")
	}
	if !h.Check("Secret123", hash) {
		t.Fatalf("Check rejected the original password")
	}
	if h.Check("Secret124", hash) {
		t.Fatalf("Check accepted a wrong password")
	}
}

func TestHash_SaltUniqueness(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	h1, err := h.Hash("same password 1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("same password 1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !h.Check("same password 1", h1) || !h.Check("same password 1", h2) {
		t.Fatalf("Check failed against one of the two hashes")
	}
}

func TestHash_InvalidInput(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	if _, err := h.Hash(""); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("empty password: want ErrInvalidInput, got %v", err)
	}
	long := strings.Repeat("x", 73)
	if _, err := h.Hash(long); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("overlong password: want ErrInvalidInput, got %v", err)
	}
}

func TestCheck_MalformedHash(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	if h.Check("whatever", "not-a-bcrypt-hash") {
		t.Fatalf("Check accepted a malformed hash")
	}
	if h.Check("whatever", "") {
		t.Fatalf("Check accepted an empty hash")
	}
}
