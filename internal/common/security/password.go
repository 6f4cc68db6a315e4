package security

import (
	"fmt"
	"minimarket/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLen is bcrypt's input limit; anything longer would be
// silently truncated by the algorithm, so we reject it up front.
const maxPasswordLen = 72

// PasswordHasher hashes and verifies passwords with bcrypt. The cost is the
// configured work factor; each Hash call salts independently, so hashing the
// same password twice yields different strings.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" || len(password) > maxPasswordLen {
		return "", fmt.Errorf("password must be 1-%d bytes: %w", maxPasswordLen, common.ErrInvalidInput)
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Check reports whether password matches hash. A wrong password or a
// malformed hash is simply false, never an error. bcrypt's comparison is
// constant-time over the digest.
func (h *PasswordHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
