package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username is already in use")
	ErrUserEmailExists    = errors.New("email is already in use")
	ErrUserPhoneExists    = errors.New("phone number is already in use")
	ErrUserNicknameExists = errors.New("nickname is already taken")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Username string  `gorm:"uniqueIndex;not null"`
	Nickname string  `gorm:"size:30"`
	Email    *string `gorm:"uniqueIndex"`
	Phone    *string `gorm:"uniqueIndex"`
	Password string  `gorm:"not null"`
	IsAdmin  bool    `gorm:"not null;default:false"`

	// Cached projections over the ledger, mutated transactionally in the hot
	// path and recomputable via LedgerDAO.RecomputeUserBalance.
	Point        int `gorm:"not null;default:0"`
	RankingPoint int `gorm:"not null;default:0"`

	LastNameChange *time.Time

	Transactions []PointTransaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Results      []TournamentResult `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Redemptions  []RewardRedemption `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, uniqueUserErr(result.Error, ErrUsernameExists)
		}

		return User{}, result.Error
	}

	return user, nil
}

// uniqueUserErr picks the sentinel matching the column a unique violation was
// raised on. Service-level pre-checks catch most duplicates, but a racing
// insert can still trip any of the user table's unique indexes.
func uniqueUserErr(err error, fallback error) error {
	name := violatedConstraint(err)
	switch {
	case strings.Contains(name, "username"):
		return ErrUsernameExists
	case strings.Contains(name, "email"):
		return ErrUserEmailExists
	case strings.Contains(name, "phone"):
		return ErrUserPhoneExists
	case strings.Contains(name, "nickname"):
		return ErrUserNicknameExists
	}

	return fallback
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *UserDAO) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&User{}).Where("phone = ?", phone).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *UserDAO) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&User{}).Where("nickname = ?", nickname).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *UserDAO) List(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("username").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// UpdateProfile persists profile fields only. Point counters are never touched
// from here; they belong to the ledger transactions.
func (d *UserDAO) UpdateProfile(ctx context.Context, user User) (User, error) {
	updates := map[string]interface{}{
		"nickname":         user.Nickname,
		"email":            user.Email,
		"phone":            user.Phone,
		"last_name_change": user.LastNameChange,
	}

	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, uniqueUserErr(result.Error, ErrUserEmailExists)
		}

		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) UpdatePassword(ctx context.Context, id uint, hashed string) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password", hashed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
