package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
)

var (
	ErrUsernameExists     = repository.ErrUsernameExists
	ErrUserEmailExists    = repository.ErrUserEmailExists
	ErrUserPhoneExists    = repository.ErrUserPhoneExists
	ErrUserNicknameExists = repository.ErrUserNicknameExists
	ErrWrongPassword      = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	if err := s.checkEmailExists(ctx, user.Email); err != nil {
		return domain.User{}, err
	}
	if err := s.checkPhoneExists(ctx, user.Phone); err != nil {
		return domain.User{}, err
	}
	if err := s.checkNicknameExists(ctx, user.Nickname); err != nil {
		return domain.User{}, err
	}

	hashedPassword, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hashedPassword

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return domain.User{}, ErrUsernameExists
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("s.repo.ExistsByEmail -> %w", err)
	}
	if exists {
		return ErrUserEmailExists
	}

	return nil
}

func (s *AuthService) checkPhoneExists(ctx context.Context, phone string) error {
	if phone == "" {
		return nil
	}

	exists, err := s.repo.ExistsByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("s.repo.ExistsByPhone -> %w", err)
	}
	if exists {
		return ErrUserPhoneExists
	}

	return nil
}

func (s *AuthService) checkNicknameExists(ctx context.Context, nickname string) error {
	if nickname == "" {
		return nil
	}

	exists, err := s.repo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return fmt.Errorf("s.repo.ExistsByNickname -> %w", err)
	}
	if exists {
		return ErrUserNicknameExists
	}

	return nil
}
