package auth

import (
	"context"
	"errors"
	"strings"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/jwt"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	users  UserRepository
	jwt    *jwt.Service
	logger *zap.Logger
}

func NewService(users UserRepository, jwtService *jwt.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, jwt: jwtService, logger: logger}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login", zap.String("email", user.Email))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// CreateAdmin is used by the seed tool and tests.
func (s *Service) CreateAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
