package service

import (
	"context"
	"errors"
	"testing"

	"quickfeedback/internal/common"
	"quickfeedback/internal/common/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	initTestConfig(t)
	s := NewAuthService(&fakeUserRepo{})

	resp, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "alice01", resp.User.Username)
	assert.Equal(t, "a@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)

	// The token's subject must decode back to the new user's id.
	sub, err := security.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, sub)
}

func TestRegister_Validation(t *testing.T) {
	initTestConfig(t)
	s := NewAuthService(&fakeUserRepo{})

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing username", RegisterRequest{Email: "a@example.com", Password: "secret1"}},
		{"missing email", RegisterRequest{Username: "alice01", Password: "secret1"}},
		{"missing password", RegisterRequest{Username: "alice01", Email: "a@example.com"}},
		{"short password", RegisterRequest{Username: "alice01", Email: "a@example.com", Password: "abc12"}},
		{"short username", RegisterRequest{Username: "al", Email: "a@example.com", Password: "secret1"}},
		{"long username", RegisterRequest{Username: "a-very-long-username", Email: "a@example.com", Password: "secret1"}},
		{"bad email", RegisterRequest{Username: "alice01", Email: "not-an-email", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	initTestConfig(t)
	repo := &fakeUserRepo{}
	s := NewAuthService(repo)

	_, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	// Same email, different username and password.
	_, err = s.Register(context.Background(), RegisterRequest{
		Username: "bob0234", Email: "a@example.com", Password: "other12",
	})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Email already exists", err.Error())

	// Same username, different email.
	_, err = s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "b@example.com", Password: "secret1",
	})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Username already exists", err.Error())

	// Exactly one record made it in.
	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegister_NeverStoresPlaintext(t *testing.T) {
	initTestConfig(t)
	repo := &fakeUserRepo{}
	s := NewAuthService(repo)

	_, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	stored, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.HashedPassword)
	assert.NotEmpty(t, stored.HashedPassword)
}

func TestLogin_Success(t *testing.T) {
	initTestConfig(t)
	s := NewAuthService(&fakeUserRepo{})

	registered, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, registered.User.ID, resp.User.ID)

	sub, err := security.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, sub)
}

func TestLogin_GenericFailure(t *testing.T) {
	initTestConfig(t)
	s := NewAuthService(&fakeUserRepo{})

	_, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPass := s.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "wrong"})
	_, unknownEmail := s.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret1"})

	require.Error(t, wrongPass)
	require.Error(t, unknownEmail)
	assert.True(t, errors.Is(wrongPass, common.ErrInvalidCredentials))
	assert.True(t, errors.Is(unknownEmail, common.ErrInvalidCredentials))
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error())
	assert.Equal(t, "Invalid credentials", wrongPass.Error())
}

func TestCurrentUser(t *testing.T) {
	initTestConfig(t)
	s := NewAuthService(&fakeUserRepo{})

	registered, err := s.Register(context.Background(), RegisterRequest{
		Username: "alice01", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	user, err := s.CurrentUser(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice01", user.Username)

	_, err = s.CurrentUser(context.Background(), "missing-id")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
