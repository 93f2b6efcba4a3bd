package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"quickfeedback/internal/common"
	"quickfeedback/internal/common/security"
	"quickfeedback/internal/domain/model"
	"quickfeedback/internal/domain/repository"

	"github.com/google/uuid"
)

// Single authoritative password policy: 6 characters minimum. The historic
// client-side rule (8+, letter+digit) was advisory only and is not enforced.
const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
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

type AuthResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.Projection `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.ValidationErrorf("All fields are required")
	}
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 16 {
		return nil, common.ValidationErrorf("Username must be between 3 and 16 characters")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, common.ValidationErrorf("Invalid email address")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, common.ValidationErrorf("Password must be at least %d characters", minPasswordLength)
	}

	// Pre-check for a friendlier message; the unique indexes remain the
	// real safeguard against a racing duplicate.
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.ConflictErrorf("Email already exists")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.ConflictErrorf("Username already exists")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user.Public(),
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ValidationErrorf("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same answer as a wrong password; no account enumeration.
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Public(),
	}, nil
}

// CurrentUser resolves the authenticated subject to its public projection.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.Projection, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	proj := user.Public()
	return &proj, nil
}

// ListUsers is the admin view of all accounts, hashes excluded.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}
