package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"minimarket/internal/common"
	"minimarket/internal/common/security"
	"minimarket/internal/domain/model"
	"minimarket/internal/domain/repository"

	"github.com/google/uuid"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	letterRe   = regexp.MustCompile(`[a-zA-Z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
)

// dummyHash is a valid bcrypt digest of a throwaway string. Login runs a
// compare against it when the email is unknown so both failure paths cost
// one bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	userRepo repository.UserRepository
	hasher   *security.PasswordHasher
	tokens   *security.TokenService
}

func NewAuthService(userRepo repository.UserRepository, hasher *security.PasswordHasher, tokens *security.TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user. Email uniqueness is checked before username,
// and both before any write. The returned user never carries the hash.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.ErrDuplicateUsername
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = "" // Clear before returning
	return user, nil
}

// Login verifies credentials and returns a bearer token keyed on the user's
// email. An unknown email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", common.ErrInvalidInput
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Check(req.Password, dummyHash)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Check(req.Password, user.HashedPassword) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// CurrentUser resolves a verified claim subject to a user record. A subject
// with no matching user (deleted after issuance) is ErrUnknownSubject, which
// the HTTP layer reports exactly like a bad token.
func (s *AuthService) CurrentUser(ctx context.Context, subject string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to resolve subject: %w", err)
	}
	return user, nil
}

func validateRegistration(req RegisterRequest) error {
	if !usernameRe.MatchString(req.Username) {
		return fmt.Errorf("username must be 3-50 characters of letters, numbers and underscores: %w", common.ErrInvalidInput)
	}
	if !emailRe.MatchString(req.Email) {
		return fmt.Errorf("invalid email address: %w", common.ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", common.ErrInvalidInput)
	}
	if !letterRe.MatchString(req.Password) || !digitRe.MatchString(req.Password) {
		return fmt.Errorf("password must contain at least one letter and one number: %w", common.ErrInvalidInput)
	}
	return nil
}
