package service

import (
	"context"
	"errors"
	"strings"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwter: jwter}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*UserDTO, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, apperr.Validation("all fields are required")
	}
	if len(username) < 3 {
		return nil, apperr.Validation("username must be at least 3 characters")
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperr.Store("lookup user failed", err)
	}
	if existing != nil {
		return nil, apperr.Duplicate("username or email already taken")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrWeakPassword) {
			return nil, apperr.Validation("password must not be empty")
		}
		return nil, apperr.Store("hash password failed", err)
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleMember,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicate) {
			return nil, err
		}
		return nil, apperr.Store("create user failed", err)
	}
	return toUserDTO(u), nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *UserDTO, error) {
	if username == "" || password == "" {
		return "", nil, apperr.Validation("username and password required")
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, apperr.Store("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, apperr.InvalidCredentials()
	}
	token, err := s.jwter.Issue(u.ID, u.Username)
	if err != nil {
		return "", nil, apperr.Store("issue token failed", err)
	}
	return token, toUserDTO(u), nil
}
