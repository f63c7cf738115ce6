package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
)

var (
	ErrUserNotFound          = repository.ErrUserNotFound
	ErrNicknameChangeTooSoon = errors.New("nickname can only be changed once every 30 days")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	UpdatePassword(ctx context.Context, id uint, hashed string) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// ProfileUpdate carries the optional profile fields; empty strings leave the
// current value in place.
type ProfileUpdate struct {
	Email    string
	Phone    string
	Nickname string
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, nil
}

// GetBalance returns the user's spendable point balance.
func (s *UserService) GetBalance(ctx context.Context, id uint) (int, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return 0, err
	}

	return user.Point, nil
}

// UpdateProfile applies the requested profile changes. A nickname change is
// allowed at most once every 30 days and must not collide with another user's
// nickname.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if update.Email != "" && update.Email != user.Email {
		exists, err := s.repo.ExistsByEmail(ctx, update.Email)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.repo.ExistsByEmail -> %w", err)
		}
		if exists {
			return domain.User{}, ErrUserEmailExists
		}
		user.Email = update.Email
	}

	if update.Phone != "" && update.Phone != user.Phone {
		exists, err := s.repo.ExistsByPhone(ctx, update.Phone)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.repo.ExistsByPhone -> %w", err)
		}
		if exists {
			return domain.User{}, ErrUserPhoneExists
		}
		user.Phone = update.Phone
	}

	if update.Nickname != "" && update.Nickname != user.Nickname {
		now := time.Now()
		if !user.CanChangeNickname(now) {
			return domain.User{}, ErrNicknameChangeTooSoon
		}

		exists, err := s.repo.ExistsByNickname(ctx, update.Nickname)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.repo.ExistsByNickname -> %w", err)
		}
		if exists {
			return domain.User{}, ErrUserNicknameExists
		}

		user.Nickname = update.Nickname
		user.LastNameChange = &now
	}

	updated, err := s.repo.UpdateProfile(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	return updated, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("s.repo.UpdatePassword -> %w", err)
	}

	return nil
}
