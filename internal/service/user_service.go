package service

import (
	"context"
	"errors"
	"fmt"

	"tareasSync/internal/logger"
	"tareasSync/internal/models/user"
	"tareasSync/internal/repository"

	"go.uber.org/zap"
)

const MinPasswordLength = 6

type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(repo UserRepository, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register создаёт пользователя и сразу выдаёт токен.
func (s *UserService) Register(ctx context.Context, email, password string) (*user.User, string, error) {
	email = user.NormalizeEmail(email)
	if email == "" {
		return nil, "", NewValidationError("email", "обязательное поле")
	}
	if len(password) < MinPasswordLength {
		return nil, "", NewValidationError("password", fmt.Sprintf("минимум %d символов", MinPasswordLength))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("хеширование пароля: %w", err)
	}

	newUser := &user.User{Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", NewEmailTaken(email)
		}
		return nil, "", fmt.Errorf("создание пользователя: %w", err)
	}

	token, err := s.tokens.Issue(newUser.ID, newUser.Email)
	if err != nil {
		return nil, "", fmt.Errorf("выпуск токена: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован", zap.Int64("user_id", newUser.ID))
	return newUser, token, nil
}

// Login неизвестный email и неверный пароль неразличимы для клиента.
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	found, err := s.repo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", NewInvalidCredentials()
		}
		return nil, "", fmt.Errorf("поиск пользователя: %w", err)
	}

	if err := s.hasher.Compare(found.PasswordHash, password); err != nil {
		logger.Warn("Service: Неверный пароль", zap.Int64("user_id", found.ID))
		return nil, "", NewInvalidCredentials()
	}

	token, err := s.tokens.Issue(found.ID, found.Email)
	if err != nil {
		return nil, "", fmt.Errorf("выпуск токена: %w", err)
	}
	return found, token, nil
}
