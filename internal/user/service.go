package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"caixa-be/internal/auth"
	"caixa-be/internal/logger"
	"caixa-be/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Me(ctx context.Context, userID uint) (*User, error)
}

type service struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &service{
		repo:     repo,
		secret:   jwtSecret,
		tokenTTL: tokenTTL,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.StoreName = strings.TrimSpace(in.StoreName)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, &User{
		Email:     in.Email,
		Password:  hashed,
		Role:      utils.RoleOwner,
		StoreName: in.StoreName,
	})
	if err != nil {
		if !errors.Is(err, ErrEmailExists) {
			log.Error("failed to create user", zap.Error(err))
		}
		return nil, err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID))
	return s.session(u)
}

func (s *service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, in.Email)
	if errors.Is(err, ErrUserNotFound) {
		log.Warn("login with unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPasswordHash(in.Password, u.Password) {
		log.Warn("login with wrong password", zap.Uint("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

func (s *service) Me(ctx context.Context, userID uint) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) session(u *User) (*Session, error) {
	token, err := auth.GenerateJWT(s.secret, u.ID, u.Role, u.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: s.now().Add(s.tokenTTL),
		User:      u,
	}, nil
}
