package repository

import (
	"context"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository/dao"
)

var (
	ErrUserNotFound       = dao.ErrUserNotFound
	ErrUsernameExists     = dao.ErrUsernameExists
	ErrUserEmailExists    = dao.ErrUserEmailExists
	ErrUserPhoneExists    = dao.ErrUserPhoneExists
	ErrUserNicknameExists = dao.ErrUserNicknameExists
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByUsername(ctx context.Context, username string) (dao.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	List(ctx context.Context) ([]dao.User, error)
	UpdateProfile(ctx context.Context, user dao.User) (dao.User, error)
	UpdatePassword(ctx context.Context, id uint, hashed string) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userDaoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.dao.ExistsByEmail(ctx, email)
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.dao.ExistsByPhone(ctx, phone)
}

func (r *UserRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.dao.ExistsByNickname(ctx, nickname)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.UpdateProfile(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	return userDaoToDomain(updated), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	if err := r.dao.UpdatePassword(ctx, id, hashed); err != nil {
		return fmt.Errorf("r.dao.UpdatePassword -> %w", err)
	}

	return nil
}

func userDaoToDomain(u dao.User) domain.User {
	user := domain.User{
		ID:             u.ID,
		Username:       u.Username,
		Nickname:       u.Nickname,
		Password:       u.Password,
		IsAdmin:        u.IsAdmin,
		Point:          u.Point,
		RankingPoint:   u.RankingPoint,
		LastNameChange: u.LastNameChange,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}

	return user
}

func (r *UserRepository) daosToDomain(users []dao.User) []domain.User {
	result := make([]domain.User, len(users))
	for i, u := range users {
		result[i] = userDaoToDomain(u)
	}

	return result
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	user := dao.User{
		ID:             u.ID,
		Username:       u.Username,
		Nickname:       u.Nickname,
		Password:       u.Password,
		IsAdmin:        u.IsAdmin,
		Point:          u.Point,
		RankingPoint:   u.RankingPoint,
		LastNameChange: u.LastNameChange,
	}

	// Blank email/phone stay NULL to keep the unique indexes usable.
	if u.Email != "" {
		email := u.Email
		user.Email = &email
	}
	if u.Phone != "" {
		phone := u.Phone
		user.Phone = &phone
	}

	return user
}
