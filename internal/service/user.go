package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

const maxProfileAddress = 320

type UserService struct {
	Repo       *repo.UserRepo
	JWTSecret  []byte
	JWTExpires time.Duration
	Now        func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UserService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if !validate.IsValidPassword(*req.Password) {
		return nil, ErrPasswordPolicy
	}

	email := strings.ToLower(strings.TrimSpace(*req.Email))
	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: email lookup: %w", ErrStorage, err)
	}
	if taken {
		return nil, fmt.Errorf("%w: email %s", ErrConflict, email)
	}

	hashed, err := hash.HashPassword(*req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:     strings.TrimSpace(*req.Name),
		Email:    email,
		Password: hashed,
		Role:     validate.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s", ErrConflict, email)
		}
		return nil, fmt.Errorf("%w: create user: %w", ErrStorage, err)
	}
	return u, nil
}

// Signin checks the credentials and issues an access token.
func (s *UserService) Signin(ctx context.Context, req transport.SigninRequest) (*transport.SigninData, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	u, err := s.Repo.ByEmail(ctx, strings.ToLower(strings.TrimSpace(*req.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %w", ErrStorage, err)
	}
	if !hash.CheckPassword(u.Password, *req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := tokens.NewAccessToken(u.ID.String(), u.Role, s.JWTSecret, s.now().Add(s.JWTExpires))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &transport.SigninData{Token: token, User: transport.SigninDataUser{Name: u.Name}}, nil
}

func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*transport.Profile, error) {
	u, err := s.Repo.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %w", ErrStorage, err)
	}
	return toProfile(u), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req transport.ProfileRequest) (*transport.Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	name := strings.TrimSpace(*req.Name)
	tel := strings.TrimSpace(*req.Tel)
	address := strings.TrimSpace(*req.Address)

	if !validate.IsValidTel(tel) {
		return nil, ErrInvalidTel
	}
	if utf8.RuneCountInString(address) > maxProfileAddress {
		return nil, ErrAddressTooLong
	}

	u, err := s.Repo.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrWriteFailed, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %w", ErrStorage, err)
	}
	if u.Name == name {
		return nil, ErrNameUnchanged
	}

	n, err := s.Repo.UpdateProfile(ctx, id, name, tel, address)
	if err != nil {
		return nil, fmt.Errorf("%w: update profile: %w", ErrStorage, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: user %s not updated", ErrWriteFailed, id)
	}

	u.Name, u.Tel, u.Address = name, tel, address
	return toProfile(u), nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req transport.PasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if !validate.IsValidPassword(*req.NewPassword) {
		return ErrPasswordPolicy
	}
	if *req.NewPassword == *req.Password {
		return ErrSamePassword
	}
	if *req.NewPassword != *req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	u, err := s.Repo.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user %s", ErrWriteFailed, id)
	}
	if err != nil {
		return fmt.Errorf("%w: user lookup: %w", ErrStorage, err)
	}
	if !hash.CheckPassword(u.Password, *req.Password) {
		return ErrWrongPassword
	}

	hashed, err := hash.HashPassword(*req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	n, err := s.Repo.UpdatePassword(ctx, id, hashed)
	if err != nil {
		return fmt.Errorf("%w: update password: %w", ErrStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %s not updated", ErrWriteFailed, id)
	}
	return nil
}

// SetRole switches the caller's role and returns the stored value.
func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, req transport.RoleRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	role, ok := validate.RoleFromString(*req.Role)
	if !ok {
		return "", fmt.Errorf("%w: role %q", ErrValidation, *req.Role)
	}

	n, err := s.Repo.UpdateRole(ctx, id, role)
	if err != nil {
		return "", fmt.Errorf("%w: update role: %w", ErrStorage, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: user %s not updated", ErrWriteFailed, id)
	}
	return role, nil
}

// Role is the lookup used by the auth middleware.
func (s *UserService) Role(ctx context.Context, id uuid.UUID) (string, error) {
	return s.Repo.Role(ctx, id)
}

func toProfile(u *models.User) *transport.Profile {
	return &transport.Profile{Name: u.Name, Email: u.Email, Tel: u.Tel, Address: u.Address}
}
